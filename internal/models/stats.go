package models

// RedemptionStats is the dashboard rollup over a scoped slice of the ledger.
// An empty ledger renders as zeros, never as an error.
type RedemptionStats struct {
	Today     int64               `json:"today"`
	ThisWeek  int64               `json:"this_week"`
	ThisMonth int64               `json:"this_month"`
	AllTime   int64               `json:"all_time"`
	ByBenefit []BenefitUsageCount `json:"by_benefit"`
}

// BenefitUsageCount is a per-benefit redemption count, grouped by the title
// denormalized onto the ledger records.
type BenefitUsageCount struct {
	BenefitTitle string `json:"benefit_title" bson:"_id"`
	Count        int64  `json:"count" bson:"count"`
}
