package market

import "StockPulse/internal/model"

// Catalog returns a fresh copy of the mock stock list.
func Catalog() []model.Stock {
	return []model.Stock{
		{Symbol: "AAPL", Name: "Apple Inc.", Price: 178.42, Change: 2.35, ChangePercent: 1.34, Volume: 52847621, MarketCap: "$2.8T", High52Week: 199.62, Low52Week: 164.08, PE: 28.4, Sector: "Technology"},
		{Symbol: "GOOGL", Name: "Alphabet Inc.", Price: 141.80, Change: -1.23, ChangePercent: -0.86, Volume: 18234567, MarketCap: "$1.8T", High52Week: 153.78, Low52Week: 115.35, PE: 24.8, Sector: "Technology"},
		{Symbol: "MSFT", Name: "Microsoft Corp.", Price: 378.91, Change: 4.56, ChangePercent: 1.22, Volume: 21456789, MarketCap: "$2.8T", High52Week: 420.82, Low52Week: 309.45, PE: 35.2, Sector: "Technology"},
		{Symbol: "AMZN", Name: "Amazon.com Inc.", Price: 178.25, Change: 3.12, ChangePercent: 1.78, Volume: 34567890, MarketCap: "$1.9T", High52Week: 201.20, Low52Week: 118.35, PE: 62.5, Sector: "Consumer Cyclical"},
		{Symbol: "NVDA", Name: "NVIDIA Corp.", Price: 875.28, Change: 12.45, ChangePercent: 1.44, Volume: 45678901, MarketCap: "$2.2T", High52Week: 974.00, Low52Week: 373.56, PE: 68.9, Sector: "Technology"},
		{Symbol: "META", Name: "Meta Platforms Inc.", Price: 505.95, Change: -3.45, ChangePercent: -0.68, Volume: 12345678, MarketCap: "$1.3T", High52Week: 542.81, Low52Week: 274.38, PE: 27.3, Sector: "Technology"},
		{Symbol: "TSLA", Name: "Tesla Inc.", Price: 248.42, Change: -5.67, ChangePercent: -2.23, Volume: 78901234, MarketCap: "$790B", High52Week: 299.29, Low52Week: 138.80, PE: 72.4, Sector: "Consumer Cyclical"},
		{Symbol: "JPM", Name: "JPMorgan Chase & Co.", Price: 198.45, Change: 1.89, ChangePercent: 0.96, Volume: 8901234, MarketCap: "$572B", High52Week: 215.85, Low52Week: 135.19, PE: 11.8, Sector: "Financial Services"},
	}
}

// Holdings returns a fresh copy of the mock portfolio.
func Holdings() []model.Holding {
	return []model.Holding{
		{Symbol: "AAPL", Name: "Apple Inc.", Shares: 50, AvgPrice: 165.32, CurrentPrice: 178.42, TotalValue: 8921, Gain: 655, GainPercent: 7.93},
		{Symbol: "NVDA", Name: "NVIDIA Corp.", Shares: 15, AvgPrice: 720.45, CurrentPrice: 875.28, TotalValue: 13129.2, Gain: 2322.45, GainPercent: 21.49},
		{Symbol: "MSFT", Name: "Microsoft Corp.", Shares: 25, AvgPrice: 350.12, CurrentPrice: 378.91, TotalValue: 9472.75, Gain: 719.75, GainPercent: 8.23},
		{Symbol: "GOOGL", Name: "Alphabet Inc.", Shares: 30, AvgPrice: 148.56, CurrentPrice: 141.80, TotalValue: 4254, Gain: -202.8, GainPercent: -4.55},
	}
}
