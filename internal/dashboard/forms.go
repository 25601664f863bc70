package dashboard

import (
	"context"
	"fmt"

	"solar-dealer-hub/internal/client"
	"solar-dealer-hub/internal/models"
	"solar-dealer-hub/internal/views"

	"github.com/shopspring/decimal"
)

type LocationSource interface {
	States(ctx context.Context) ([]models.State, error)
	Cities(ctx context.Context, stateID uint) ([]models.City, error)
	Districts(ctx context.Context, stateID uint) ([]models.District, error)
	Clusters(ctx context.Context, districtID uint) ([]models.Cluster, error)
}

// LocationForm is the state → city/district → cluster picker shared by the
// order, goal and project forms. Choosing a parent clears every selection below it.
type LocationForm struct {
	src    LocationSource
	notify Notifier

	StateID    uint
	CityID     uint
	DistrictID uint
	ClusterID  uint

	States    []models.State
	Cities    []models.City
	Districts []models.District
	Clusters  []models.Cluster
}

func NewLocationForm(src LocationSource, n Notifier) *LocationForm {
	return &LocationForm{src: src, notify: n}
}

// Load fetches the state list.
func (f *LocationForm) Load(ctx context.Context) error {
	states, err := f.src.States(ctx)
	if err != nil {
		f.fail("Failed to load states", err)
		return err
	}
	f.States = states
	return nil
}

// SetState selects a state, clears city, district and cluster, and loads the
// state's cities and districts.
func (f *LocationForm) SetState(ctx context.Context, id uint) error {
	f.StateID = id
	f.CityID, f.DistrictID, f.ClusterID = 0, 0, 0
	f.Cities, f.Districts, f.Clusters = nil, nil, nil
	if id == 0 {
		return nil
	}

	var (
		cities    []models.City
		districts []models.District
	)
	err := client.Batch(ctx,
		func(ctx context.Context) (err error) { cities, err = f.src.Cities(ctx, id); return },
		func(ctx context.Context) (err error) { districts, err = f.src.Districts(ctx, id); return },
	)
	if err != nil {
		f.fail("Failed to load locations", err)
		return err
	}
	f.Cities, f.Districts = cities, districts
	return nil
}

func (f *LocationForm) SetCity(id uint) {
	f.CityID = id
}

// SetDistrict selects a district, clears the cluster and loads the district's clusters.
func (f *LocationForm) SetDistrict(ctx context.Context, id uint) error {
	f.DistrictID = id
	f.ClusterID = 0
	f.Clusters = nil
	if id == 0 {
		return nil
	}
	clusters, err := f.src.Clusters(ctx, id)
	if err != nil {
		f.fail("Failed to load clusters", err)
		return err
	}
	f.Clusters = clusters
	return nil
}

func (f *LocationForm) SetCluster(id uint) {
	f.ClusterID = id
}

func (f *LocationForm) fail(msg string, err error) {
	if f.notify != nil {
		f.notify.Notify(msg, err)
	}
}

func optional(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}

func deref(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}

// OrderOptionSource supplies the pickers of the order form.
type OrderOptionSource interface {
	SupplierVendors(ctx context.Context) ([]models.Vendor, error)
	Products(ctx context.Context) ([]models.Product, error)
	States(ctx context.Context) ([]models.State, error)
}

type OrderWriter interface {
	CreateOrder(ctx context.Context, o models.ProcurementOrder) (*models.ProcurementOrder, error)
	UpdateOrder(ctx context.Context, o models.ProcurementOrder) (*models.ProcurementOrder, error)
}

// OrderForm is the create/edit modal of a procurement order.
type OrderForm struct {
	ID          uint
	OrderNumber string // set by the server, kept as-is on edit
	SupplierID  uint
	Status      string
	Notes       string
	Items       []models.OrderItem
	Location    *LocationForm

	Suppliers []models.Vendor
	Products  []models.Product
}

func NewOrderForm(loc *LocationForm) *OrderForm {
	return &OrderForm{Status: models.OrderPending, Location: loc}
}

// EditOrderForm fills the form from an existing order. The location
// selections are restored without reloading their option lists.
func EditOrderForm(o models.ProcurementOrder, loc *LocationForm) *OrderForm {
	f := &OrderForm{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		SupplierID:  o.SupplierID,
		Status:      o.Status,
		Notes:       o.Notes,
		Location:    loc,
	}
	for _, it := range o.Items {
		f.Items = append(f.Items, models.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
	}
	if loc != nil {
		loc.StateID, loc.CityID, loc.DistrictID = deref(o.StateID), deref(o.CityID), deref(o.DistrictID)
	}
	return f
}

// Load fetches suppliers, products and states together. If any fetch fails
// nothing is replaced and the failure is reported once.
func (f *OrderForm) Load(ctx context.Context, src OrderOptionSource, n Notifier) error {
	var (
		suppliers []models.Vendor
		products  []models.Product
		states    []models.State
	)
	err := client.Batch(ctx,
		func(ctx context.Context) (err error) { suppliers, err = src.SupplierVendors(ctx); return },
		func(ctx context.Context) (err error) { products, err = src.Products(ctx); return },
		func(ctx context.Context) (err error) { states, err = src.States(ctx); return },
	)
	if err != nil {
		if n != nil {
			n.Notify("Failed to load order form", err)
		}
		return err
	}
	f.Suppliers, f.Products = suppliers, products
	if f.Location != nil {
		f.Location.States = states
	}
	return nil
}

// Supplier returns the loaded supplier with the given id.
func (f *OrderForm) Supplier(id uint) (models.Vendor, bool) {
	for _, v := range f.Suppliers {
		if v.ID == id {
			return v, true
		}
	}
	return models.Vendor{}, false
}

// Product returns the loaded product with the given id.
func (f *OrderForm) Product(id uint) (models.Product, bool) {
	for _, p := range f.Products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func (f *OrderForm) AddItem(productID uint, quantity int, price float64) {
	f.Items = append(f.Items, models.OrderItem{ProductID: productID, Quantity: quantity, Price: price})
}

func (f *OrderForm) SetItem(i int, it models.OrderItem) error {
	if i < 0 || i >= len(f.Items) {
		return fmt.Errorf("item %d out of range", i+1)
	}
	f.Items[i] = it
	return nil
}

func (f *OrderForm) RemoveItem(i int) error {
	if i < 0 || i >= len(f.Items) {
		return fmt.Errorf("item %d out of range", i+1)
	}
	f.Items = append(f.Items[:i], f.Items[i+1:]...)
	return nil
}

func (f *OrderForm) Total() decimal.Decimal {
	return views.OrderTotal(f.Items)
}

// Payload is the body the form submits.
func (f *OrderForm) Payload() models.ProcurementOrder {
	o := models.ProcurementOrder{
		ID:          f.ID,
		OrderNumber: f.OrderNumber,
		SupplierID:  f.SupplierID,
		Status:      f.Status,
		Notes:       f.Notes,
		Items:       append([]models.OrderItem(nil), f.Items...),
		TotalAmount: f.Total().InexactFloat64(),
	}
	if f.Location != nil {
		o.StateID = optional(f.Location.StateID)
		o.CityID = optional(f.Location.CityID)
		o.DistrictID = optional(f.Location.DistrictID)
	}
	return o
}

// Submit creates the order, or updates it when the form was opened for edit.
func (f *OrderForm) Submit(ctx context.Context, w OrderWriter) (*models.ProcurementOrder, error) {
	if f.ID == 0 {
		return w.CreateOrder(ctx, f.Payload())
	}
	return w.UpdateOrder(ctx, f.Payload())
}
