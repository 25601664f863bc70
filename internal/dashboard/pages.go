package dashboard

import (
	"context"

	"solar-dealer-hub/internal/models"
	"solar-dealer-hub/internal/views"
)

// The page constructors take the narrow slice of *client.Client each page uses.

type InventorySource interface {
	InventoryItems(ctx context.Context) ([]models.InventoryItem, error)
}

type OrderSource interface {
	Orders(ctx context.Context, f views.OrderFilter) ([]models.ProcurementOrder, error)
	DeleteOrder(ctx context.Context, id uint) error
}

type ProjectSource interface {
	Projects(ctx context.Context, f views.ProjectFilter) ([]models.Project, error)
	DeleteProject(ctx context.Context, id uint) error
}

type ProfessionSource interface {
	Professions(ctx context.Context, stateID uint) ([]models.DealerProfession, error)
	DeleteProfession(ctx context.Context, id uint) error
}

type (
	InventoryPage   = ListPage[models.InventoryItem, views.InventoryFilter]
	OrdersPage      = ListPage[models.ProcurementOrder, views.OrderFilter]
	ProjectsPage    = ListPage[models.Project, views.ProjectFilter]
	ProfessionsPage = ListPage[models.DealerProfession, ProfessionFilter]
)

// NewInventoryPage fetches the whole inventory once and filters it locally.
func NewInventoryPage(src InventorySource, n Notifier) *InventoryPage {
	return NewListPage(PageConfig[models.InventoryItem, views.InventoryFilter]{
		Name:     "inventory item",
		Fetch:    src.InventoryItems,
		Derive:   views.FilterInventory,
		Notifier: n,
	})
}

func NewOrdersPage(src OrderSource, n Notifier, c Confirmer) *OrdersPage {
	return NewListPage(PageConfig[models.ProcurementOrder, views.OrderFilter]{
		Name: "order",
		Fetch: func(ctx context.Context) ([]models.ProcurementOrder, error) {
			return src.Orders(ctx, views.OrderFilter{})
		},
		Delete:    src.DeleteOrder,
		Derive:    views.FilterOrders,
		Notifier:  n,
		Confirmer: c,
	})
}

func NewProjectsPage(src ProjectSource, n Notifier, c Confirmer) *ProjectsPage {
	return NewListPage(PageConfig[models.Project, views.ProjectFilter]{
		Name: "project",
		Fetch: func(ctx context.Context) ([]models.Project, error) {
			return src.Projects(ctx, views.ProjectFilter{})
		},
		Delete:    src.DeleteProject,
		Derive:    views.FilterProjects,
		Notifier:  n,
		Confirmer: c,
	})
}

// ProfessionFilter narrows professions to one state. Zero means all states.
type ProfessionFilter struct {
	StateID uint
}

func NewProfessionsPage(src ProfessionSource, n Notifier, c Confirmer) *ProfessionsPage {
	return NewListPage(PageConfig[models.DealerProfession, ProfessionFilter]{
		Name: "profession",
		Fetch: func(ctx context.Context) ([]models.DealerProfession, error) {
			return src.Professions(ctx, 0)
		},
		Delete: src.DeleteProfession,
		Derive: func(items []models.DealerProfession, f ProfessionFilter) []models.DealerProfession {
			if f.StateID == 0 {
				return items
			}
			out := []models.DealerProfession{}
			for _, p := range items {
				if p.StateID == f.StateID {
					out = append(out, p)
				}
			}
			return out
		},
		Notifier:  n,
		Confirmer: c,
	})
}

// ProfessionCounts groups the page's current view by state.
func ProfessionCounts(p *ProfessionsPage) []views.StateProfessions {
	return views.GroupProfessionsByState(p.View())
}
