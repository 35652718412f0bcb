package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Bean status values
const (
	BeanStatusActive   = "Active"
	BeanStatusFinished = "Finished"
)

// BeanStatuses lists the valid bean status values in display order
var BeanStatuses = []string{BeanStatusActive, BeanStatusFinished}

// Validation errors
var (
	ErrRoasterRequired      = errors.New("roaster is required")
	ErrCountryRequired      = errors.New("country is required")
	ErrPurchaseDateRequired = errors.New("purchase date is required")
	ErrWeightRequired       = errors.New("weight is required")
	ErrInvalidStatus        = errors.New("status must be Active or Finished")
	ErrBeanRequired         = errors.New("bean is required")
	ErrDateRequired         = errors.New("date is required")
	ErrRecipeNameRequired   = errors.New("recipe name is required")
	ErrGrinderRequired      = errors.New("grinder is required")
	ErrDripperRequired      = errors.New("dripper is required")
	ErrPourStepsRequired    = errors.New("pour steps are required")
	ErrCafeNameRequired     = errors.New("cafe name is required")
	ErrBeanNameRequired     = errors.New("bean name is required")
)

// Bean is an inventory record for a purchased coffee lot.
type Bean struct {
	ID           string    `json:"id"`
	Country      string    `json:"country"`
	Region       string    `json:"region"`
	Farm         string    `json:"farm"`
	Variety      string    `json:"variety"`
	Process      string    `json:"process"`
	Altitude     string    `json:"altitude"`
	Roaster      string    `json:"roaster"`
	Weight       float64   `json:"weight"`
	Price        float64   `json:"price"`
	PurchaseDate string    `json:"purchaseDate"`
	Status       string    `json:"status"`
	FlavorNotes  []string  `json:"flavorNotes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsActive reports whether the bean is still in the active inventory.
// The comparison is case-insensitive since older sheet rows used lowercase values.
func (b *Bean) IsActive() bool {
	return strings.EqualFold(strings.TrimSpace(b.Status), BeanStatusActive)
}

// PricePerGram returns the bean's price per gram, or 0 when the weight is unknown.
func (b *Bean) PricePerGram() float64 {
	return PricePerGram(b.Price, b.Weight).InexactFloat64()
}

// Brew is a logged brewing session referencing a Bean.
type Brew struct {
	ID             string       `json:"id"`
	Date           string       `json:"date"`
	BeanID         string       `json:"beanId"`
	RecipeName     string       `json:"recipeName"`
	Grinder        string       `json:"grinder"`
	Clicks         int          `json:"clicks"`
	Dripper        string       `json:"dripper"`
	FilterType     string       `json:"filterType"`
	WaterTemp      float64      `json:"waterTemp"`
	Dose           float64      `json:"dose"`
	PourSteps      PourSequence `json:"pourSteps"`
	TotalTime      string       `json:"totalTime"`
	TasteReview    string       `json:"tasteReview"`
	CalculatedCost float64      `json:"calculatedCost"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`

	// Joined data for display, never persisted
	Bean *Bean `json:"bean,omitempty"`
}

// Ratio returns the brew ratio (dose to total water) formatted as "1:x.y".
func (b *Brew) Ratio() string {
	return b.PourSteps.Ratio(b.Dose)
}

// Preset is a reusable named brew recipe.
type Preset struct {
	ID         string       `json:"id"`
	RecipeName string       `json:"recipeName"`
	Grinder    string       `json:"grinder"`
	Clicks     int          `json:"clicks"`
	Dripper    string       `json:"dripper"`
	Temp       float64      `json:"temp"`
	PourSteps  PourSequence `json:"pourSteps"`
	Notes      string       `json:"notes,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// CafeLog records a coffee purchased at a cafe, independent of the bean inventory.
type CafeLog struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	CafeName    string    `json:"cafeName"`
	BeanName    string    `json:"beanName"`
	Price       float64   `json:"price"`
	Review      string    `json:"review"`
	FlavorNotes []string  `json:"flavorNotes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateBeanRequest contains the fields for adding a bean to the inventory
type CreateBeanRequest struct {
	Country      string   `json:"country"`
	Region       string   `json:"region"`
	Farm         string   `json:"farm"`
	Variety      string   `json:"variety"`
	Process      string   `json:"process"`
	Altitude     string   `json:"altitude"`
	Roaster      string   `json:"roaster"`
	Weight       float64  `json:"weight"`
	Price        float64  `json:"price"`
	PurchaseDate string   `json:"purchaseDate"`
	Status       string   `json:"status"`
	FlavorNotes  []string `json:"flavorNotes"`
}

// Validate checks the required bean fields and normalizes the status.
func (r *CreateBeanRequest) Validate() error {
	return validateBean(r.Roaster, r.Country, r.PurchaseDate, r.Weight, &r.Status)
}

// UpdateBeanRequest replaces every editable field of a bean
type UpdateBeanRequest struct {
	Country      string   `json:"country"`
	Region       string   `json:"region"`
	Farm         string   `json:"farm"`
	Variety      string   `json:"variety"`
	Process      string   `json:"process"`
	Altitude     string   `json:"altitude"`
	Roaster      string   `json:"roaster"`
	Weight       float64  `json:"weight"`
	Price        float64  `json:"price"`
	PurchaseDate string   `json:"purchaseDate"`
	Status       string   `json:"status"`
	FlavorNotes  []string `json:"flavorNotes"`
}

// Validate checks the required bean fields and normalizes the status.
func (r *UpdateBeanRequest) Validate() error {
	return validateBean(r.Roaster, r.Country, r.PurchaseDate, r.Weight, &r.Status)
}

// UpdateRequestFor builds an update request that keeps every field of b.
func UpdateRequestFor(b *Bean) *UpdateBeanRequest {
	return &UpdateBeanRequest{
		Country:      b.Country,
		Region:       b.Region,
		Farm:         b.Farm,
		Variety:      b.Variety,
		Process:      b.Process,
		Altitude:     b.Altitude,
		Roaster:      b.Roaster,
		Weight:       b.Weight,
		Price:        b.Price,
		PurchaseDate: b.PurchaseDate,
		Status:       b.Status,
		FlavorNotes:  b.FlavorNotes,
	}
}

func validateBean(roaster, country, purchaseDate string, weight float64, status *string) error {
	if strings.TrimSpace(roaster) == "" {
		return ErrRoasterRequired
	}
	if strings.TrimSpace(country) == "" {
		return ErrCountryRequired
	}
	if strings.TrimSpace(purchaseDate) == "" {
		return ErrPurchaseDateRequired
	}
	if weight <= 0 {
		return ErrWeightRequired
	}
	normalized, err := NormalizeStatus(*status)
	if err != nil {
		return err
	}
	*status = normalized
	return nil
}

// NormalizeStatus maps a status value onto its canonical spelling.
// An empty status is treated as Active.
func NormalizeStatus(status string) (string, error) {
	s := strings.TrimSpace(status)
	if s == "" {
		return BeanStatusActive, nil
	}
	for _, valid := range BeanStatuses {
		if strings.EqualFold(s, valid) {
			return valid, nil
		}
	}
	return "", ErrInvalidStatus
}

// CreateBrewRequest contains the fields for logging a brew. It is also used for updates.
type CreateBrewRequest struct {
	Date           string       `json:"date"`
	BeanID         string       `json:"beanId"`
	RecipeName     string       `json:"recipeName"`
	Grinder        string       `json:"grinder"`
	Clicks         int          `json:"clicks"`
	Dripper        string       `json:"dripper"`
	FilterType     string       `json:"filterType"`
	WaterTemp      float64      `json:"waterTemp"`
	Dose           float64      `json:"dose"`
	PourSteps      PourSequence `json:"pourSteps"`
	TotalTime      string       `json:"totalTime"`
	TasteReview    string       `json:"tasteReview"`
	CalculatedCost float64      `json:"calculatedCost"`
}

// Validate checks the required brew fields.
func (r *CreateBrewRequest) Validate() error {
	if strings.TrimSpace(r.BeanID) == "" {
		return ErrBeanRequired
	}
	if strings.TrimSpace(r.Date) == "" {
		return ErrDateRequired
	}
	return nil
}

// CreatePresetRequest contains the fields for saving a preset. It is also used for updates.
type CreatePresetRequest struct {
	RecipeName string       `json:"recipeName" yaml:"recipeName"`
	Grinder    string       `json:"grinder" yaml:"grinder"`
	Clicks     int          `json:"clicks" yaml:"clicks"`
	Dripper    string       `json:"dripper" yaml:"dripper"`
	Temp       float64      `json:"temp" yaml:"temp"`
	PourSteps  PourSequence `json:"pourSteps" yaml:"pourSteps"`
	Notes      string       `json:"notes,omitempty" yaml:"notes"`
}

// UnmarshalJSON keeps a free-text pouring guide sent in place of pour steps,
// such as "50-70-60-60 (300 total)", by moving it to the front of Notes.
func (r *CreatePresetRequest) UnmarshalJSON(data []byte) error {
	type plain CreatePresetRequest
	aux := struct {
		*plain
		PourSteps json.RawMessage `json:"pourSteps"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.PourSteps)
	if len(raw) == 0 || raw[0] != '"' {
		r.PourSteps = nil
		if len(raw) == 0 {
			return nil
		}
		return json.Unmarshal(raw, &r.PourSteps)
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return err
	}
	r.PourSteps = ParsePourSequence(text)
	if r.PourSteps != nil {
		return nil
	}
	if guide := strings.TrimSpace(text); guide != "" {
		if strings.TrimSpace(r.Notes) == "" {
			r.Notes = guide
		} else {
			r.Notes = guide + "\n" + r.Notes
		}
	}
	return nil
}

// Validate checks the required preset fields. A preset without pour steps
// needs a written guide in its notes.
func (r *CreatePresetRequest) Validate() error {
	if strings.TrimSpace(r.RecipeName) == "" {
		return ErrRecipeNameRequired
	}
	if strings.TrimSpace(r.Grinder) == "" {
		return ErrGrinderRequired
	}
	if strings.TrimSpace(r.Dripper) == "" {
		return ErrDripperRequired
	}
	if len(r.PourSteps) == 0 && strings.TrimSpace(r.Notes) == "" {
		return ErrPourStepsRequired
	}
	return nil
}

// CreateCafeLogRequest contains the fields for recording a cafe visit. It is also used for updates.
type CreateCafeLogRequest struct {
	Date        string   `json:"date"`
	CafeName    string   `json:"cafeName"`
	BeanName    string   `json:"beanName"`
	Price       float64  `json:"price"`
	Review      string   `json:"review"`
	FlavorNotes []string `json:"flavorNotes"`
}

// Validate checks the required cafe log fields.
func (r *CreateCafeLogRequest) Validate() error {
	if strings.TrimSpace(r.CafeName) == "" {
		return ErrCafeNameRequired
	}
	if strings.TrimSpace(r.BeanName) == "" {
		return ErrBeanNameRequired
	}
	if strings.TrimSpace(r.Date) == "" {
		return ErrDateRequired
	}
	return nil
}
