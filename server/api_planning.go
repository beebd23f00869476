package server

import (
	"net/http"

	"github.com/lazharichir/zigo/catalog"
	"github.com/lazharichir/zigo/domain"
	"github.com/lazharichir/zigo/planner"
)

// FormattedBudget holds the budget figures as display strings
type FormattedBudget struct {
	Total     string `json:"total"`
	Paid      string `json:"paid"`
	Deposited string `json:"deposited"`
	Remaining string `json:"remaining"`
	Progress  string `json:"progress"`
}

type CategoryLine struct {
	domain.CategoryTotal
	Formatted string `json:"formatted"`
	Completed bool   `json:"completed"`
}

// GuestLists splits the guest list by RSVP status
type GuestLists struct {
	Confirmed []domain.Guest `json:"confirmed"`
	Pending   []domain.Guest `json:"pending"`
}

// OverviewResponse is what the dashboard and budget screens render from
type OverviewResponse struct {
	Event       domain.Event         `json:"event"`
	Budget      domain.BudgetSummary `json:"budget"`
	Formatted   FormattedBudget      `json:"formatted"`
	Categories  []CategoryLine       `json:"categories"`
	Guests      domain.GuestCounts   `json:"guests"`
	GuestLists  GuestLists           `json:"guestLists"`
	PaidVendors int                  `json:"paidVendors"`
	Wizard      planner.Progress     `json:"wizard"`
}

type selectRequest struct {
	Category domain.Category `json:"category"`
	VendorID string          `json:"vendorId"`
}

type skipRequest struct {
	Category domain.Category `json:"category"`
}

// CatalogVendorResponse is a catalog listing with its computed rating
type CatalogVendorResponse struct {
	catalog.Vendor
	AverageRating float64 `json:"averageRating"`
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	event, err := s.store.GetEvent(eventID)
	if err != nil {
		writeError(w, err)
		return
	}
	progress, err := s.wizard.Progress(eventID)
	if err != nil {
		writeError(w, err)
		return
	}

	budget := domain.Budget(event)
	resp := OverviewResponse{
		Event:  event,
		Budget: budget,
		Formatted: FormattedBudget{
			Total:     formatMoney(budget.Total),
			Paid:      formatMoney(budget.Paid),
			Deposited: formatMoney(budget.Deposited),
			Remaining: formatMoney(budget.Remaining),
			Progress:  formatPercent(budget.Progress),
		},
		Guests:      domain.GuestCountsFor(event),
		PaidVendors: domain.PaidVendorCount(event),
		Wizard:      progress,
		GuestLists: GuestLists{
			Confirmed: nonNil(domain.GuestsByStatus(event, domain.GuestConfirmed)),
			Pending:   nonNil(domain.GuestsByStatus(event, domain.GuestPending)),
		},
	}
	for _, ct := range domain.CategoryTotals(event) {
		resp.Categories = append(resp.Categories, CategoryLine{
			CategoryTotal: ct,
			Formatted:     formatMoney(ct.Total),
			Completed:     event.IsCategoryCompleted(ct.Category),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func nonNil(guests []domain.Guest) []domain.Guest {
	if guests == nil {
		return []domain.Guest{}
	}
	return guests
}

func (s *Server) handleWizardProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.wizard.Progress(r.PathValue("eventID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (s *Server) handleWizardSelect(w http.ResponseWriter, r *http.Request) {
	defer drainBody(r)
	var req selectRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid json", err.Error(), nil)
		return
	}

	vendor, err := s.wizard.Select(r.PathValue("eventID"), req.Category, req.VendorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vendor)
}

func (s *Server) handleWizardSkip(w http.ResponseWriter, r *http.Request) {
	defer drainBody(r)
	var req skipRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid json", err.Error(), nil)
		return
	}

	if err := s.wizard.Skip(r.PathValue("eventID"), req.Category); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCatalog(w http.ResponseWriter, r *http.Request) {
	vendors := s.catalog.All()
	if raw := r.URL.Query().Get("category"); raw != "" {
		category, err := domain.ParseCategory(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		vendors = s.catalog.ByCategory(category)
	}
	day := ""
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := domain.ParseDate(raw)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "bad request", err.Error(), nil)
			return
		}
		day = date.Format(domain.DateLayout)
	}

	resp := make([]CatalogVendorResponse, 0, len(vendors))
	for _, v := range vendors {
		if day != "" && !v.IsAvailable(day) {
			continue
		}
		rating, err := s.catalog.AverageRating(v.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		resp = append(resp, CatalogVendorResponse{Vendor: v, AverageRating: rating})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCatalogVendor(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("vendorID")
	vendor, err := s.catalog.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	rating, err := s.catalog.AverageRating(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CatalogVendorResponse{Vendor: vendor, AverageRating: rating})
}
