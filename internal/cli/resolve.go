package cli

import (
	"fmt"

	"github.com/media2net-app/byeauto/internal/domain"
	"github.com/media2net-app/byeauto/internal/service"
)

// resolveWorkItemID resolves a work item reference which can be:
//   - A full id
//   - A unique id prefix (at least four characters)
//   - Empty, in which case an interactive terminal gets a picker over
//     candidates
func resolveWorkItemID(app *App, ref string, candidates []*domain.WorkItem) (string, error) {
	if ref != "" {
		return app.WorkItems.Resolve(ref)
	}
	if !app.interactive() {
		return "", fmt.Errorf("a work item id is required")
	}
	var id string
	form := wizardSelectWorkItem(candidates, &id)
	if form == nil {
		return "", fmt.Errorf("no work items to choose from")
	}
	if err := form.Run(); err != nil {
		return "", err
	}
	return id, nil
}

// argOrEmpty returns args[0] when present.
func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// allItems is the candidate list for commands that accept any item.
func allItems(app *App) []*domain.WorkItem {
	return app.WorkItems.List(service.ListFilter{})
}
