package store

import "time"

type User struct {
	ID       int64
	Username string
	BranchID int64
	IsAdmin  bool
}

type Session struct {
	ID        string
	UserID    int64
	CSRFToken string
	ExpiresAt time.Time
}

type Branch struct {
	ID      int64
	Code    string
	Name    string
	Address string
	Phone   string
}

type Employee struct {
	ID       int64
	BranchID int64
	Name     string
	Archived bool
}

type Sale struct {
	ID        int64
	BranchID  int64
	SaleDate  string
	StaffName string
	Product   string
	Quantity  int64
	Amount    float64
	Channel   string
	Note      string
}

const (
	OrderReceived  = "received"
	OrderPacked    = "packed"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
)

type Order struct {
	ID          int64
	BranchID    int64
	OrderNo     string
	Customer    string
	Address     string
	Status      string
	PlacedDate  string
	ShippedDate string
}

type Event struct {
	ID          int64
	BranchID    int64
	Title       string
	StartsOn    string
	EndsOn      string
	LandingSlug string
}

type Referral struct {
	ID           int64
	EventID      int64
	Code         string
	ReferrerName string
	Phone        string
}

type LetterSignup struct {
	ID           int64
	ReferralID   int64
	ReferrerName string
	SignedUpOn   string
}

// ScheduleRow is a planned interval as persisted; DiaryRow the actual
// interval logged after the fact. Hours are stored pre-rounded to one
// decimal, exactly as derived in the grid.
type ScheduleRow struct {
	BranchID   int64
	EmployeeID int64
	WorkDate   string
	StartTime  string
	EndTime    string
	Hours      float64
}

type DiaryRow struct {
	BranchID      int64
	EmployeeID    int64
	WorkDate      string
	StartTime     string
	EndTime       string
	Hours         float64
	ChecklistDone bool
	Note          string
}
