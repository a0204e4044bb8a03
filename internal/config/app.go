package config

import "time"

type AppConfig struct {
	DisplayCurrencyCode string `yaml:"display-currency"`
	TimeZone            string `yaml:"time-zone"`
	BcryptCost          int    `yaml:"bcrypt-cost"`
}

// DisplayCurrency is only used to format amounts; the ledger itself is single-currency.
func (s *AppConfig) DisplayCurrency() string {
	return s.DisplayCurrencyCode
}

// Location is where "today" is evaluated for transactions without a date.
// Parse has already rejected unknown zones.
func (s *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s *AppConfig) CredentialCost() int {
	return s.BcryptCost
}
