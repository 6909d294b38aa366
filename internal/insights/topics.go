package insights

// Topic maps a keyword set to one canned response.
type Topic struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Response string   `json:"-"`
}

const DefaultResponse = "I've analyzed your data and found several key insights. Your business is showing strong performance with particular strength in the electronics category. Would you like me to dive deeper into any specific area?"

// DefaultTopics is ordered by match priority.
func DefaultTopics() []Topic {
	return []Topic{
		{
			Name:     "revenue",
			Keywords: []string{"revenue", "sales"},
			Response: "Based on current trends, your revenue is projected to grow by 18% next quarter. The main drivers are increased customer acquisition in the electronics category and improved conversion rates.",
		},
		{
			Name:     "customers",
			Keywords: []string{"customer", "user"},
			Response: "Customer behavior analysis shows a 23% increase in repeat purchases. The southern region shows the highest customer lifetime value, suggesting successful regional marketing strategies.",
		},
		{
			Name:     "inventory",
			Keywords: []string{"inventory", "stock"},
			Response: "Inventory optimization recommendations: Increase electronics stock by 25%, reduce beauty products by 15%. Predicted stockout risk for mobile accessories in 2 weeks.",
		},
		{
			Name:     "performance",
			Keywords: []string{"performance", "metric"},
			Response: "Overall performance metrics show strong growth across all KPIs. Revenue per customer increased by 12%, and customer acquisition cost decreased by 8%.",
		},
	}
}

func DefaultSuggestions() []string {
	return []string{
		"Would you like to see a detailed breakdown?",
		"Should I generate a report on this topic?",
		"Do you want predictions for next quarter?",
	}
}
