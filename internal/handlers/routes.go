// internal/handlers/routes.go
package handlers

import "net/http"

// APIPrefix is the base path of every versioned route.
const APIPrefix = "/api/v1"

// Handlers groups the HTTP handlers mounted by Register. A nil handler leaves
// its routes unregistered.
type Handlers struct {
	Inventory *InventoryHandler
	Dashboard *DashboardHandler
	Category  *CategoryHandler
	Export    *ExportHandler
	Import    *ImportHandler
	Health    *HealthHandler
}

// Register mounts every route on mux.
func Register(mux *http.ServeMux, h Handlers) {
	if h.Health != nil {
		mux.HandleFunc("GET /health", h.Health.Health)
		mux.HandleFunc("GET /ready", h.Health.Readiness)
	}

	if h.Inventory != nil {
		mux.HandleFunc("GET "+APIPrefix+"/items", h.Inventory.ListItems)
		mux.HandleFunc("POST "+APIPrefix+"/items", h.Inventory.CreateItem)
		mux.HandleFunc("GET "+APIPrefix+"/items/{id}", h.Inventory.GetItem)
		mux.HandleFunc("PUT "+APIPrefix+"/items/{id}", h.Inventory.UpdateItem)
		mux.HandleFunc("DELETE "+APIPrefix+"/items/{id}", h.Inventory.DeleteItem)
		mux.HandleFunc("POST "+APIPrefix+"/items/{id}/stock", h.Inventory.AdjustStock)
	}

	if h.Dashboard != nil {
		mux.HandleFunc("GET "+APIPrefix+"/dashboard", h.Dashboard.GetDashboard)
	}

	if h.Category != nil {
		mux.HandleFunc("POST "+APIPrefix+"/categories/suggest", h.Category.SuggestCategory)
	}

	if h.Export != nil {
		mux.HandleFunc("GET "+APIPrefix+"/export/excel", h.Export.ExportExcel)
		mux.HandleFunc("GET "+APIPrefix+"/export/json", h.Export.ExportJSON)
	}

	if h.Import != nil {
		mux.HandleFunc("POST "+APIPrefix+"/import/excel", h.Import.ImportExcel)
	}
}
