package cli

import (
	"fmt"
	"io"

	"ecocycle-backend/internal/offline"
)

// consoleNotifier renders offline events as terminal lines, one per event.
func consoleNotifier(w io.Writer) offline.Notifier {
	return offline.NotifierFunc(func(e offline.Event) {
		switch e.Type {
		case offline.EventWentOnline:
			fmt.Fprintf(w, "✅ Back online (%d pending)\n", e.PendingChanges)
		case offline.EventWentOffline:
			fmt.Fprintf(w, "🔴 Connection lost, saving offline (%d pending)\n", e.PendingChanges)
		case offline.EventSyncStarted:
			fmt.Fprintf(w, "🔄 Syncing %d pending change(s)...\n", e.PendingChanges)
		case offline.EventSyncCompleted:
			fmt.Fprintf(w, "✅ Sync complete (%d pending)\n", e.PendingChanges)
		case offline.EventSyncFailed:
			fmt.Fprintf(w, "⚠️  Sync failed: %s (%d pending)\n", e.Reason, e.PendingChanges)
		}
	})
}
