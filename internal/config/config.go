package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type LoanBackend string

const (
	LoanBackendFile      LoanBackend = "file"
	LoanBackendSQLite    LoanBackend = "sqlite"
	LoanBackendFirestore LoanBackend = "firestore"
)

type Config struct {
	Port           string
	ProjectID      string
	LogLevel       string
	LoanBackend    LoanBackend
	LoansFile      string
	SQLitePath     string
	KMSKeyName     string
	AuthEnabled    bool
	MetricsEnabled bool
}

// New reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func New() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		ProjectID:      os.Getenv("PROJECTID"),
		LogLevel:       os.Getenv("LOGLEVEL"),
		LoanBackend:    getLoanBackend(os.Getenv("LOANBACKEND")),
		LoansFile:      getEnv("LOANSFILE", "data/loans.json"),
		SQLitePath:     getEnv("SQLITEPATH", "data/loans.db"),
		KMSKeyName:     os.Getenv("KMSKEYNAME"),
		AuthEnabled:    getBool("AUTHENABLED", false),
		MetricsEnabled: getBool("METRICSENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getLoanBackend(backend string) LoanBackend {
	switch strings.ToLower(backend) {
	case "sqlite":
		return LoanBackendSQLite
	case "firestore":
		return LoanBackendFirestore
	default: // "file"
		return LoanBackendFile
	}
}

// ParseLoanBackend is the strict form of the LOANBACKEND lookup, used where an
// unknown name should be reported instead of falling back to the file store.
func ParseLoanBackend(backend string) (LoanBackend, error) {
	switch b := LoanBackend(strings.ToLower(backend)); b {
	case LoanBackendFile, LoanBackendSQLite, LoanBackendFirestore:
		return b, nil
	}
	return "", fmt.Errorf("unknown loan backend %q", backend)
}
