package webapp

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zdevbro-cpu/las-backoffice/internal/excelreport"
	"github.com/zdevbro-cpu/las-backoffice/internal/store"
)

func (s *server) newBasePage(r *http.Request, v viewer) basePage {
	branches, err := s.store.ListBranches(r.Context())
	if err != nil {
		// Fetch failures leave the list empty; the screen still renders.
		log.Printf("list branches: %v", err)
	}
	return basePage{
		Viewer:   v,
		CSRF:     v.CSRF(),
		Error:    r.URL.Query().Get("error"),
		Message:  r.URL.Query().Get("message"),
		Branches: branches,
	}
}

func (s *server) dashboardPage(w http.ResponseWriter, r *http.Request, v viewer) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data := dashboardData{
		basePage: s.newBasePage(r, v),
		Today:    time.Now().Format("2006-01-02"),
	}

	if v.Branch.ID != 0 {
		total, err := s.store.DailySalesTotal(r.Context(), v.Branch.ID, data.Today)
		if err != nil {
			log.Printf("daily sales total: %v", err)
		}
		data.SalesTotal = total

		for _, status := range []string{store.OrderReceived, store.OrderPacked, store.OrderShipped} {
			orders, err := s.store.ListOrders(r.Context(), store.OrdersFilter{BranchID: v.Branch.ID, Status: status})
			if err != nil {
				log.Printf("list %s orders: %v", status, err)
				continue
			}
			data.OrderCounts = append(data.OrderCounts, orderCount{Status: status, Count: len(orders)})
		}
	}

	s.render(w, s.dashboardTmpl, data)
}

func (s *server) branchesRoute(w http.ResponseWriter, r *http.Request, v viewer) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, s.branchesTmpl, branchesData{basePage: s.newBasePage(r, v)})
	case http.MethodPost:
		s.createBranch(w, r, v)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *server) createBranch(w http.ResponseWriter, r *http.Request, v viewer) {
	if !v.User.IsAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if err := r.ParseForm(); err != nil || !s.checkCSRF(r, v) {
		http.Redirect(w, r, "/branches?error=Invalid+form+submission", http.StatusFound)
		return
	}

	code := strings.TrimSpace(r.FormValue("code"))
	name := strings.TrimSpace(r.FormValue("name"))
	if code == "" || name == "" {
		// Validation is synchronous; nothing reaches the store.
		http.Redirect(w, r, "/branches?error=Code+and+name+are+required", http.StatusFound)
		return
	}

	_, err := s.store.CreateBranch(r.Context(), store.Branch{
		Code:    code,
		Name:    name,
		Address: strings.TrimSpace(r.FormValue("address")),
		Phone:   strings.TrimSpace(r.FormValue("phone")),
	})
	if err != nil {
		log.Printf("create branch: %v", err)
		http.Redirect(w, r, "/branches?error=Unable+to+create+branch", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/branches?message=Branch+created", http.StatusFound)
}

func (s *server) branchByCodeRoute(w http.ResponseWriter, r *http.Request, v viewer) {
	trimmed := strings.Trim(strings.TrimPrefix(r.URL.Path, "/branches/"), "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	code, err := url.PathUnescape(parts[0])
	if err != nil || strings.TrimSpace(code) == "" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost || !v.User.IsAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if err := r.ParseForm(); err != nil || !s.checkCSRF(r, v) {
		http.Redirect(w, r, "/branches?error=Invalid+form+submission", http.StatusFound)
		return
	}

	switch parts[1] {
	case "update":
		name := strings.TrimSpace(r.FormValue("name"))
		if name == "" {
			http.Redirect(w, r, "/branches?error=Name+is+required", http.StatusFound)
			return
		}
		err = s.store.UpdateBranch(r.Context(), code, name,
			strings.TrimSpace(r.FormValue("address")), strings.TrimSpace(r.FormValue("phone")))
	case "delete":
		err = s.store.DeleteBranch(r.Context(), code)
	default:
		http.NotFound(w, r)
		return
	}

	if errors.Is(err, store.ErrNotFound) {
		http.Redirect(w, r, "/branches?error=Branch+not+found", http.StatusFound)
		return
	}
	if err != nil {
		log.Printf("%s branch %s: %v", parts[1], code, err)
		http.Redirect(w, r, "/branches?error=Unable+to+save+branch", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/branches?message=Branch+saved", http.StatusFound)
}

func (s *server) salesRoute(w http.ResponseWriter, r *http.Request, v viewer) {
	switch r.Method {
	case http.MethodGet:
		s.salesPage(w, r, v)
	case http.MethodPost:
		s.createSale(w, r, v)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *server) salesFilterFromQuery(r *http.Request, v viewer) store.SalesFilter {
	return store.SalesFilter{
		BranchID: v.Branch.ID,
		From:     strings.TrimSpace(r.URL.Query().Get("from")),
		To:       strings.TrimSpace(r.URL.Query().Get("to")),
		Search:   strings.TrimSpace(r.URL.Query().Get("q")),
	}
}

func (s *server) salesPage(w http.ResponseWriter, r *http.Request, v viewer) {
	filter := s.salesFilterFromQuery(r, v)
	sales, err := s.store.ListSales(r.Context(), filter)
	if err != nil {
		log.Printf("list sales: %v", err)
	}
	s.render(w, s.salesTmpl, salesData{
		basePage: s.newBasePage(r, v),
		Sales:    sales,
		From:     filter.From,
		To:       filter.To,
		Search:   filter.Search,
	})
}

func (s *server) createSale(w http.ResponseWriter, r *http.Request, v viewer) {
	if err := r.ParseForm(); err != nil || !s.checkCSRF(r, v) {
		http.Redirect(w, r, "/sales?error=Invalid+form+submission", http.StatusFound)
		return
	}
	if v.Branch.ID == 0 {
		http.Redirect(w, r, "/sales?error=Pick+a+branch+first", http.StatusFound)
		return
	}

	product := strings.TrimSpace(r.FormValue("product"))
	amount, amountErr := strconv.ParseFloat(r.FormValue("amount"), 64)
	saleDate := strings.TrimSpace(r.FormValue("sale_date"))
	if saleDate == "" {
		saleDate = time.Now().Format("2006-01-02")
	}
	if product == "" || amountErr != nil || amount <= 0 {
		http.Redirect(w, r, "/sales?error=Product+and+a+positive+amount+are+required", http.StatusFound)
		return
	}

	quantity := int64(1)
	if q, err := strconv.ParseInt(r.FormValue("quantity"), 10, 64); err == nil && q > 0 {
		quantity = q
	}
	channel := strings.TrimSpace(r.FormValue("channel"))
	if channel == "" {
		channel = "store"
	}

	_, err := s.store.InsertSale(r.Context(), store.Sale{
		BranchID:  v.Branch.ID,
		SaleDate:  saleDate,
		StaffName: strings.TrimSpace(r.FormValue("staff_name")),
		Product:   product,
		Quantity:  quantity,
		Amount:    amount,
		Channel:   channel,
		Note:      strings.TrimSpace(r.FormValue("note")),
	})
	if err != nil {
		log.Printf("insert sale: %v", err)
		http.Redirect(w, r, "/sales?error=Unable+to+record+sale", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/sales?message=Sale+recorded", http.StatusFound)
}

func (s *server) salesExport(w http.ResponseWriter, r *http.Request, v viewer) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sales, err := s.store.ListSales(r.Context(), s.salesFilterFromQuery(r, v))
	if err != nil {
		log.Printf("list sales for export: %v", err)
		http.Error(w, "unable to load sales", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=sales-%s.xlsx", v.Branch.Code))
	if err := excelreport.WriteSalesReport(w, v.Branch, sales); err != nil {
		log.Printf("write sales report: %v", err)
	}
}

func (s *server) salesImport(w http.ResponseWriter, r *http.Request, v viewer) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(10 << 20); err != nil || !s.checkCSRF(r, v) {
		http.Redirect(w, r, "/sales?error=Invalid+upload", http.StatusFound)
		return
	}
	if v.Branch.ID == 0 {
		http.Redirect(w, r, "/sales?error=Pick+a+branch+first", http.StatusFound)
		return
	}

	file, header, err := r.FormFile("ledger")
	if err != nil {
		http.Redirect(w, r, "/sales?error=Ledger+file+is+required", http.StatusFound)
		return
	}
	defer file.Close()

	rows, skipped, err := excelreport.ReadSalesLedger(file, header.Filename)
	if err != nil {
		http.Redirect(w, r, "/sales?error="+url.QueryEscape("Unable to read ledger: "+err.Error()), http.StatusFound)
		return
	}

	imported := 0
	for _, sale := range excelreport.ToSales(rows, v.Branch.ID) {
		if _, err := s.store.InsertSale(r.Context(), sale); err != nil {
			// Keep going; the summary reports what made it in.
			log.Printf("import sale: %v", err)
			skipped = append(skipped, fmt.Sprintf("%s %s: not saved", sale.SaleDate, sale.Product))
			continue
		}
		imported++
	}

	message := fmt.Sprintf("Imported %d sales", imported)
	if len(skipped) > 0 {
		message += fmt.Sprintf(" (%d rows skipped)", len(skipped))
	}
	http.Redirect(w, r, "/sales?message="+url.QueryEscape(message), http.StatusFound)
}

func (s *server) ordersRoute(w http.ResponseWriter, r *http.Request, v viewer) {
	switch r.Method {
	case http.MethodGet:
		s.ordersPage(w, r, v)
	case http.MethodPost:
		s.createOrder(w, r, v)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *server) ordersPage(w http.ResponseWriter, r *http.Request, v viewer) {
	filter := store.OrdersFilter{
		BranchID: v.Branch.ID,
		Status:   strings.TrimSpace(r.URL.Query().Get("status")),
		Search:   strings.TrimSpace(r.URL.Query().Get("q")),
	}
	orders, err := s.store.ListOrders(r.Context(), filter)
	if err != nil {
		log.Printf("list orders: %v", err)
	}
	s.render(w, s.ordersTmpl, ordersData{
		basePage: s.newBasePage(r, v),
		Orders:   orders,
		Status:   filter.Status,
		Search:   filter.Search,
		Statuses: []string{store.OrderReceived, store.OrderPacked, store.OrderShipped, store.OrderDelivered},
	})
}

func (s *server) createOrder(w http.ResponseWriter, r *http.Request, v viewer) {
	if err := r.ParseForm(); err != nil || !s.checkCSRF(r, v) {
		http.Redirect(w, r, "/orders?error=Invalid+form+submission", http.StatusFound)
		return
	}
	if v.Branch.ID == 0 {
		http.Redirect(w, r, "/orders?error=Pick+a+branch+first", http.StatusFound)
		return
	}

	orderNo := strings.TrimSpace(r.FormValue("order_no"))
	customer := strings.TrimSpace(r.FormValue("customer"))
	if orderNo == "" || customer == "" {
		http.Redirect(w, r, "/orders?error=Order+number+and+customer+are+required", http.StatusFound)
		return
	}
	placed := strings.TrimSpace(r.FormValue("placed_date"))
	if placed == "" {
		placed = time.Now().Format("2006-01-02")
	}

	_, err := s.store.InsertOrder(r.Context(), store.Order{
		BranchID:   v.Branch.ID,
		OrderNo:    orderNo,
		Customer:   customer,
		Address:    strings.TrimSpace(r.FormValue("address")),
		PlacedDate: placed,
	})
	if err != nil {
		log.Printf("insert order: %v", err)
		http.Redirect(w, r, "/orders?error=Unable+to+create+order", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/orders?message=Order+created", http.StatusFound)
}

func (s *server) orderByNoRoute(w http.ResponseWriter, r *http.Request, v viewer) {
	trimmed := strings.Trim(strings.TrimPrefix(r.URL.Path, "/orders/"), "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || parts[1] != "status" {
		http.NotFound(w, r)
		return
	}
	orderNo, err := url.PathUnescape(parts[0])
	if err != nil || strings.TrimSpace(orderNo) == "" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil || !s.checkCSRF(r, v) {
		http.Redirect(w, r, "/orders?error=Invalid+form+submission", http.StatusFound)
		return
	}

	status := strings.TrimSpace(r.FormValue("status"))
	shipped := strings.TrimSpace(r.FormValue("shipped_date"))
	if err := s.store.AdvanceOrderStatus(r.Context(), orderNo, status, shipped); err != nil {
		http.Redirect(w, r, "/orders?error="+url.QueryEscape(err.Error()), http.StatusFound)
		return
	}
	http.Redirect(w, r, "/orders?message=Order+updated", http.StatusFound)
}
