package entity

// Resolution はフリーテキストのクエリをシンボルに解決した結果です。
type Resolution struct {
	Symbol string
	// AssetType は "stock" または "option" です。
	AssetType string
	// Confidence は[0,1]の解決信頼度です。
	Confidence float64
}
