package core_test

import (
	"fmt"

	"github.com/shrek82/oramap/model"
)

type Level int

const (
	LevelBasic Level = iota
	LevelGold
)

func (l Level) String() string {
	if l == LevelGold {
		return "Gold"
	}
	return "Basic"
}

func (l *Level) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Gold":
		*l = LevelGold
	case "Basic":
		*l = LevelBasic
	default:
		return fmt.Errorf("unknown level %q", b)
	}
	return nil
}

type Member struct {
	model.Entity
	ID    string  `orm:"pk;size:8"`
	Name  string  `orm:"size:20"`
	Score int     `orm:""`
	Note  *string `orm:""`
	Level Level   `orm:""`

	calls []string
}

func (m *Member) BeforeInsert() error {
	m.calls = append(m.calls, "BeforeInsert")
	return nil
}

func (m *Member) AfterInsert() error {
	m.calls = append(m.calls, "AfterInsert")
	return nil
}

func (m *Member) BeforeUpdate() error {
	m.calls = append(m.calls, "BeforeUpdate")
	return nil
}

func (m *Member) AfterFind() error {
	m.calls = append(m.calls, "AfterFind")
	return nil
}

// Marker maps no columns.
type Marker struct {
	model.Entity
	Label string
}

// Journal has no primary key.
type Journal struct {
	Line string `orm:""`
}
