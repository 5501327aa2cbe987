// Package config defines the data structures related to configuration and
// includes functions for loading the config and turning it into a planning
// session.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/emi-planner/pkg/constants"
	"github.com/spf13/viper"
)

// DateTimeLayout is the calendar-month format used in output.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds one planning session as written in YAML. Amounts,
// rates and tenures are kept as entered ("₹14,54,615", "8.5%", "20 yrs")
// and parsed by Session.
type Configuration struct {
	StartDate  string        `yaml:"startDate,omitempty" json:"startDate,omitempty"`
	Strategy   string        `yaml:"strategy,omitempty" json:"strategy,omitempty"`
	Loans      []Loan        `yaml:"loans" json:"loans"`
	Prepayment Prepayment    `yaml:"prepayment,omitempty" json:"prepayment,omitempty"`
	Logging    LoggingConfig `yaml:"logging,omitempty" json:"logging,omitempty"`
	Output     OutputConfig  `yaml:"output,omitempty" json:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" json:"level,omitempty"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" json:"format,omitempty"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" json:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" json:"format,omitempty"` // pretty, csv, json
}

// Loan is one loan entry.
type Loan struct {
	ID                    string `yaml:"id,omitempty" json:"id,omitempty"`
	Name                  string `yaml:"name,omitempty" json:"name,omitempty"`
	Principal             string `yaml:"principal" json:"principal"`
	InterestRate          string `yaml:"interestRate" json:"interestRate"`
	Tenure                string `yaml:"tenure" json:"tenure"`
	Moratorium            string `yaml:"moratorium,omitempty" json:"moratorium,omitempty"`
	PrepaymentDelayMonths int    `yaml:"prepaymentDelayMonths,omitempty" json:"prepaymentDelayMonths,omitempty"`
}

// Prepayment selects the prepayment mode and, for custom mode, its rows.
type Prepayment struct {
	Mode string          `yaml:"mode,omitempty" json:"mode,omitempty"` // none, custom, 16-emi-rule
	Rows []PrepaymentRow `yaml:"rows,omitempty" json:"rows,omitempty"`
}

// PrepaymentRow is a recurring monthly amount between two dates, inclusive.
type PrepaymentRow struct {
	StartDate string `yaml:"startDate" json:"startDate"`
	EndDate   string `yaml:"endDate" json:"endDate"`
	Amount    string `yaml:"amount" json:"amount"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetDefault("strategy", "snowball")
	v.SetDefault("prepayment.mode", constants.PrepaymentModeNone)
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}
