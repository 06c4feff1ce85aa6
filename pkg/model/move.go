package model

import "github.com/teamdex/teamdex/pkg/typechart"

// MoveRef is one entry of the paged move index.
type MoveRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Move is a read-only snapshot of one move in the catalog. Power is 0
// for moves without direct damage and Accuracy is 0 for moves that
// never miss, matching how the upstream catalog reports them.
type Move struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Type        typechart.Type `json:"type"`
	DamageClass string         `json:"damageClass"`
	Power       int            `json:"power"`
	Accuracy    int            `json:"accuracy"`
	PP          int            `json:"pp"`
	Priority    int            `json:"priority"`
	Description string         `json:"description"`
}
