package dto

import "github.com/shopspring/decimal"

// DashboardStats mirrors the fields the dashboard renders. Every field is an
// independent aggregate; a failed sub-query degrades that field to zero
// instead of failing the whole response.
type DashboardStats struct {
	TotalProducts    int64           `json:"totalProducts"`
	TotalStock       int64           `json:"totalStock"`
	LowStockProducts int64           `json:"lowStockProducts"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	StockIn          int64           `json:"stockIn"`
	StockOut         int64           `json:"stockOut"`
}

// TopProduct is one row of the revenue ranking.
type TopProduct struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// MonthlySales is one (year, month) bucket of the sales trend.
type MonthlySales struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// ReportSummary aggregates the figures shown on the reports page and
// embedded into the exported PDF.
type ReportSummary struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalSales        int64           `json:"total_sales"`
	TotalUnitsSold    int64           `json:"total_units_sold"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	StockIn           int64           `json:"stock_in"`
	StockOut          int64           `json:"stock_out"`
	TopProducts       []TopProduct    `json:"top_products"`
	MonthlyTrend      []MonthlySales  `json:"monthly_trend"`
}
