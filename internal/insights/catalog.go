package insights

// Catalog is the fixed content of the insight and predictive panels.
type Catalog struct {
	Insights        []Insight        `json:"insights"`
	Recommendations []Recommendation `json:"recommendations"`
	Anomalies       []Anomaly        `json:"anomalies"`
	Predictions     []Prediction     `json:"predictions"`
	Forecast        []ForecastPoint  `json:"forecast"`
}

type Insight struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Trend       string `json:"trend"`
	Importance  string `json:"importance"`
	Confidence  int    `json:"confidence"`
	Impact      string `json:"impact"`
	Actionable  bool   `json:"actionable"`
	Category    string `json:"category"`
}

type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Effort      string `json:"effort"`
	Impact      string `json:"impact"`
	Timeline    string `json:"timeline"`
}

type Anomaly struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Confidence  int    `json:"confidence"`
	Detected    string `json:"detected"`
}

type Prediction struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Confidence  int    `json:"confidence"`
	Impact      string `json:"impact"`
}

// ForecastPoint has a nil Actual for periods still in the future.
type ForecastPoint struct {
	Period     string `json:"period"`
	Actual     *int   `json:"actual"`
	Predicted  int    `json:"predicted"`
	Confidence int    `json:"confidence"`
}

func actual(v int) *int { return &v }

func DefaultCatalog() Catalog {
	return Catalog{
		Insights: []Insight{
			{
				ID:          1,
				Title:       "Revenue Acceleration",
				Description: "Revenue surged 15% in Week 2 due to a spike in electronics sales in the southern region. Mobile accessories led the category with 23% growth.",
				Trend:       "up",
				Importance:  "high",
				Confidence:  94,
				Impact:      "Revenue increase of $12,500",
				Actionable:  true,
				Category:    "revenue",
			},
			{
				ID:          2,
				Title:       "Customer Behavior Shift",
				Description: "Customer preferences are shifting from Home goods to Electronics, with a 12% increase in the latter category. This trend is accelerating among millennials.",
				Trend:       "neutral",
				Importance:  "medium",
				Confidence:  87,
				Impact:      "Inventory optimization needed",
				Actionable:  true,
				Category:    "customer",
			},
			{
				ID:          3,
				Title:       "Seasonal Decline Alert",
				Description: "Beauty product sales have declined by 8% compared to the previous period, potentially indicating seasonal trends or market saturation.",
				Trend:       "down",
				Importance:  "medium",
				Confidence:  76,
				Impact:      "Revenue at risk: $8,200",
				Actionable:  false,
				Category:    "risk",
			},
		},
		Recommendations: []Recommendation{
			{
				Title:       "Optimize Product Mix",
				Description: "Increase electronics inventory by 20% and reduce beauty products by 10% based on demand trends.",
				Priority:    "high",
				Effort:      "medium",
				Impact:      "high",
				Timeline:    "2 weeks",
			},
			{
				Title:       "Regional Marketing Focus",
				Description: "Amplify marketing efforts in the southern region where electronics sales are performing exceptionally well.",
				Priority:    "medium",
				Effort:      "low",
				Impact:      "medium",
				Timeline:    "1 week",
			},
			{
				Title:       "Customer Retention Campaign",
				Description: "Launch targeted campaigns for beauty product customers to prevent further churn.",
				Priority:    "high",
				Effort:      "high",
				Impact:      "medium",
				Timeline:    "3 weeks",
			},
		},
		Anomalies: []Anomaly{
			{
				Title:       "Unusual Order Spike",
				Description: "Electronics orders increased 300% on Tuesday between 2-4 PM, significantly above normal patterns.",
				Severity:    "medium",
				Confidence:  92,
				Detected:    "2 hours ago",
			},
			{
				Title:       "Payment Failure Increase",
				Description: "Payment failures increased by 45% in the last 24 hours, primarily affecting mobile payments.",
				Severity:    "high",
				Confidence:  98,
				Detected:    "30 minutes ago",
			},
		},
		Predictions: []Prediction{
			{Title: "Revenue Forecast", Description: "Expected 12% growth in next quarter based on current trends", Confidence: 87, Impact: "high"},
			{Title: "Inventory Alert", Description: "Electronics category may face stockout in 2 weeks", Confidence: 94, Impact: "medium"},
			{Title: "Customer Churn Risk", Description: "15% of premium customers show churn indicators", Confidence: 76, Impact: "high"},
		},
		Forecast: []ForecastPoint{
			{Period: "Week 1", Actual: actual(4000), Predicted: 4100, Confidence: 95},
			{Period: "Week 2", Actual: actual(4600), Predicted: 4550, Confidence: 92},
			{Period: "Week 3", Actual: actual(3800), Predicted: 3900, Confidence: 88},
			{Period: "Week 4", Actual: actual(5000), Predicted: 4950, Confidence: 90},
			{Period: "Week 5", Predicted: 5200, Confidence: 85},
			{Period: "Week 6", Predicted: 5400, Confidence: 82},
			{Period: "Week 7", Predicted: 5100, Confidence: 78},
		},
	}
}
