package model

import "time"

// Company is a directory entry. List queries fill the summary fields only;
// the detail lookup fills everything.
type Company struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	HeroTagline string `json:"hero_tagline,omitempty" yaml:"hero_tagline"`
	SubTagline  string `json:"sub_tagline,omitempty" yaml:"sub_tagline"`

	OffersInference  bool `json:"offers_inference" yaml:"offers_inference"`
	OffersGPUs       bool `json:"offers_gpus" yaml:"offers_gpus"`
	OffersWeb3       bool `json:"offers_web3" yaml:"offers_web3"`
	OffersFinetuning bool `json:"offers_finetuning" yaml:"offers_finetuning"`

	Website              string     `json:"website,omitempty" yaml:"website"`
	CompetitiveAdvantage string     `json:"competitive_advantage,omitempty" yaml:"competitive_advantage"`
	Products             []string   `json:"products,omitempty" yaml:"products"`
	CreatedAt            *time.Time `json:"created_at,omitempty" yaml:"created_at"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty" yaml:"updated_at"`
}

// Offers reports whether the company has the given capability flag set.
func (c Company) Offers(cp Capability) bool {
	switch cp {
	case Inference:
		return c.OffersInference
	case GPUs:
		return c.OffersGPUs
	case Web3:
		return c.OffersWeb3
	case Finetuning:
		return c.OffersFinetuning
	default:
		return false
	}
}

// Capabilities returns the flags the company offers, in display order.
func (c Company) Capabilities() []Capability {
	var out []Capability
	for _, cp := range AllCapabilities {
		if c.Offers(cp) {
			out = append(out, cp)
		}
	}
	return out
}

// Customer is a notable customer reference of a company.
type Customer struct {
	ID        string     `json:"id" yaml:"id"`
	CompanyID string     `json:"company_id" yaml:"company_id"`
	Name      string     `json:"customer" yaml:"customer"`
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at"`
}

// Product is a product record of a company.
type Product struct {
	ID          string     `json:"id" yaml:"id"`
	CompanyID   string     `json:"company_id" yaml:"company_id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description"`
	CreatedAt   *time.Time `json:"created_at,omitempty" yaml:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" yaml:"updated_at"`
}

// PricingPlan is one pricing model of a company. Price is free text ("$10/mo").
type PricingPlan struct {
	ID        string     `json:"id" yaml:"id"`
	CompanyID string     `json:"company_id" yaml:"company_id"`
	Name      string     `json:"name" yaml:"name"`
	Price     string     `json:"price" yaml:"price"`
	Details   string     `json:"details,omitempty" yaml:"details"`
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" yaml:"updated_at"`
}
