package project

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FoundationType is the foundation selection of a project.
type FoundationType string

const (
	FoundationConcreteSlab FoundationType = "concrete-slab"
	FoundationPier         FoundationType = "pier-foundation"
	FoundationCrawlSpace   FoundationType = "crawl-space"
)

// WallMaterial is the wall framing/material selection of a project.
type WallMaterial string

const (
	Wall2x6Wood WallMaterial = "2x6-wood"
	Wall2x8Wood WallMaterial = "2x8-wood"
	WallLog     WallMaterial = "log"
	WallSteel   WallMaterial = "steel"
)

// RoofMaterial is the roofing material selection of a project.
type RoofMaterial string

const (
	RoofMetal   RoofMaterial = "metal"
	RoofAsphalt RoofMaterial = "asphalt"
	RoofCedar   RoofMaterial = "cedar"
)

// FoundationTypes lists the accepted foundation selections in display order.
var FoundationTypes = []FoundationType{FoundationConcreteSlab, FoundationPier, FoundationCrawlSpace}

// WallMaterials lists the accepted wall selections in display order.
var WallMaterials = []WallMaterial{Wall2x6Wood, Wall2x8Wood, WallLog, WallSteel}

// RoofMaterials lists the accepted roof selections in display order.
var RoofMaterials = []RoofMaterial{RoofMetal, RoofAsphalt, RoofCedar}

// Money is an amount in US cents. Integer cents keep estimate totals exact.
type Money int64

// moneyPrinter groups thousands in dollar amounts.
var moneyPrinter = message.NewPrinter(language.English)

// String formats the amount as grouped dollars, e.g. "$12,345.67".
// Every surface labels money through this method.
func (m Money) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return sign + moneyPrinter.Sprintf("$%d", int64(m)/100) + fmt.Sprintf(".%02d", int64(m)%100)
}

// Project is a user's in-progress building design.
// Raw fields are edited through Apply/Store.ApplyUpdate; Area and
// EstimatedCost are derived and never set directly.
type Project struct {
	// ID is a ULID assigned at creation
	ID string `json:"id"`

	// TemplateID is the template the project was seeded from (nullable)
	TemplateID *string `json:"template_id,omitempty"`

	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
	Height float64 `json:"height"`

	// Area is derived from Width and Length
	Area float64 `json:"area"`

	FoundationType FoundationType `json:"foundation_type,omitempty"`
	WallMaterial   WallMaterial   `json:"wall_material,omitempty"`
	RoofMaterial   RoofMaterial   `json:"roof_material,omitempty"`

	// EstimatedCost is derived from the cost estimator; nil means not yet computed
	EstimatedCost *Money `json:"estimated_cost_cents,omitempty"`

	// CreatedAt is the Unix timestamp when the project was created
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp of the last successful mutation
	UpdatedAt int64 `json:"updated_at"`

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64 `json:"deleted_at,omitempty"`
}

// CostTBD is shown in place of a cost that cannot be computed yet.
const CostTBD = "TBD"

// EstimatedCostLabel returns the estimated cost for display, or CostTBD.
func (p *Project) EstimatedCostLabel() string {
	if p.EstimatedCost == nil {
		return CostTBD
	}
	return p.EstimatedCost.String()
}

// Summary is the list view of a project.
type Summary struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Area          float64 `json:"area"`
	EstimatedCost *Money  `json:"estimated_cost_cents,omitempty"`
	TemplateID    *string `json:"template_id,omitempty"`
	CreatedAt     int64   `json:"created_at"`
	UpdatedAt     int64   `json:"updated_at"`
	DeletedAt     *int64  `json:"deleted_at,omitempty"`
}

// ToSummary converts a Project to its list view.
func (p *Project) ToSummary() Summary {
	return Summary{
		ID:            p.ID,
		Name:          p.Name,
		Area:          p.Area,
		EstimatedCost: p.EstimatedCost,
		TemplateID:    p.TemplateID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		DeletedAt:     p.DeletedAt,
	}
}
