package model_test

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shrek82/oramap/model"
)

type Status int

const (
	StatusUnknown Status = iota
	StatusActive
	StatusLocked
)

var statusNames = []string{"Unknown", "Active", "Locked"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s *Status) UnmarshalText(b []byte) error {
	for i, n := range statusNames {
		if n == string(b) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", b)
}

type NUser struct {
	model.Entity
	UserID   string `orm:"pk;size:32"`
	UserName string `orm:"size:64"`
	Age      int    `orm:""`
	Comment  string // unmapped
}

type Account struct {
	model.Entity
	ID      int64           `orm:"pk"`
	Balance decimal.Decimal `orm:"type:number"`
}

func (Account) TableName() string { return "ACCOUNTS" }

type Ledger struct {
	ID      int64  `orm:"pk"`
	Owner   string `orm:"size:40"`
	Version int64  `orm:"column:ROW_VERSION"`
}

func (Ledger) ConcurrencyCheck() []string {
	return []string{"ROW_VERSION", "NO_SUCH_COLUMN", "ID"}
}

type Ticket struct {
	model.Entity
	ID       int64   `orm:"pk"`
	Status   Status  `orm:""`
	Previous *Status `orm:""`
}

type Audit struct {
	CreatedBy string    `orm:"size:30"`
	CreatedAt time.Time `orm:"type:date"`
}

type Document struct {
	model.Entity
	Audit
	ID    uuid.UUID `orm:"pk"`
	Title string    `orm:"column:DOC_TITLE;size:200"`
}

type Sample struct {
	model.Entity
	ID      uuid.UUID       `orm:"pk"`
	Name    string          `orm:"size:20"`
	Count   int32           `orm:""`
	Ratio   float64         `orm:""`
	Active  bool            `orm:""`
	Amount  decimal.Decimal `orm:""`
	Stamp   time.Time       `orm:""`
	Note    *string         `orm:""`
	Payload []byte          `orm:""`
	Score   *int            `orm:""`
	Small   uint8           `orm:""`
	Skipped string          `orm:"-"`
}

type Marker struct {
	Name string
}

type DuplicateColumns struct {
	A string `orm:"column:X"`
	B string `orm:"column:X"`
}

type BadSize struct {
	A string `orm:"size:wide"`
}

type BadItem struct {
	A string `orm:"indexed"`
}

type Unsupported struct {
	A map[string]int `orm:""`
}
