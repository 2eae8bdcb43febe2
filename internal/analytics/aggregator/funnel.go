package aggregator

// ConversionFunnel is the three-stage leads → quotations → orders view.
// Each stage rate is measured against the previous stage; the overall
// rate is always orders over leads, computed directly rather than by
// chaining the stage rates, so rounding in the intermediate rates can
// never drift the headline number.
type ConversionFunnel struct {
	LeadCount            int     `json:"leadCount"`
	QuotationCount       int     `json:"quotationCount"`
	OrderCount           int     `json:"orderCount"`
	LeadToQuotationRate  float64 `json:"leadToQuotationRate"`
	QuotationToOrderRate float64 `json:"quotationToOrderRate"`
	OverallRate          float64 `json:"overallRate"`
}

// Funnel computes the conversion funnel. Every division guards its zero
// denominator with a zero rate.
func Funnel(leads, quotations, orders int) ConversionFunnel {
	f := ConversionFunnel{
		LeadCount:      leads,
		QuotationCount: quotations,
		OrderCount:     orders,
	}
	if leads > 0 {
		f.LeadToQuotationRate = float64(quotations) / float64(leads) * 100
		f.OverallRate = float64(orders) / float64(leads) * 100
	}
	if quotations > 0 {
		f.QuotationToOrderRate = float64(orders) / float64(quotations) * 100
	}
	return f
}

// FunnelFromSnapshot counts the snapshot populations and computes the
// funnel over them.
func FunnelFromSnapshot(s Snapshot) ConversionFunnel {
	return Funnel(len(s.Leads), len(s.Quotations), len(s.Orders))
}
