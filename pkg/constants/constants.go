// Package constants provides shared constants for the emi-planner application.
package constants

// DateTimeLayout is the calendar-month format used for ledger keys and in
// CSV output.
const DateTimeLayout = "2006-01"

// InputDateLayout is the day-first format used by date fields entered by
// users, e.g. "15-08-2025".
const InputDateLayout = "02-01-2006"

// ISODateLayout is accepted wherever InputDateLayout is.
const ISODateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// InflationRate is the fixed annual inflation rate, in percent, used to
	// report the inflation-adjusted loss of a loan.
	InflationRate = 5.85
)

// Template prepayment constants
const (
	// TemplateIntervalMonths is the gap between two prepayments of the
	// 16-EMI rule.
	TemplateIntervalMonths = 3

	// TemplateHorizonMonths bounds template generation past a loan's nominal
	// tenure.
	TemplateHorizonMonths = 60
)

// Prepayment modes
const (
	// PrepaymentModeNone runs baseline schedules only.
	PrepaymentModeNone = "none"

	// PrepaymentModeCustom applies user-defined date-ranged rows.
	PrepaymentModeCustom = "custom"

	// PrepaymentModeSixteenEMI pays one extra EMI every third month.
	PrepaymentModeSixteenEMI = "16-emi-rule"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultRedisKey is the hash holding saved loans in redis
	DefaultRedisKey = "emi-planner:saved-loans"

	// DefaultServiceName identifies the server in traces
	DefaultServiceName = "emi-planner"
)
