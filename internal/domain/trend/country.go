package trend

// Country is one of the markets trend collection is tuned for
type Country string

const (
	CountryKR Country = "KR"
	CountryJP Country = "JP"
	CountryUS Country = "US"
)

// Valid reports whether c is a supported market
func (c Country) Valid() bool {
	switch c {
	case CountryKR, CountryJP, CountryUS:
		return true
	}
	return false
}
