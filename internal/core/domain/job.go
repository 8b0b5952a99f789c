package domain

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// Category is one of the 13 fixed job categories plus Uncategorized.
type Category string

const (
	CategoryInvestmentBanking   Category = "Investment Banking"
	CategorySalesTrading        Category = "Sales & Trading"
	CategoryPortfolioManagement Category = "Portfolio Management"
	CategoryRiskManagement      Category = "Risk Management"
	CategoryMAAdvisory          Category = "M&A Advisory"
	CategoryPrivateEquity       Category = "Private Equity"
	CategoryStructuring         Category = "Structuring"

	CategoryAccounting        Category = "Accounting"
	CategoryAudit             Category = "Audit"
	CategoryBackOffice        Category = "Back Office Operations"
	CategoryBasicDataScience  Category = "Basic Data Science"
	CategoryComplianceReports Category = "Compliance Reporting"
	CategoryAdministrative    Category = "Administrative Support"

	CategoryUncategorized Category = "Uncategorized"
)

type JobType string

const (
	JobTypeInternship JobType = "Internship"
	JobTypeFullTime   JobType = "Full Time"
)

type JobPosting struct {
	ID          string    `json:"id"`
	JobHash     string    `json:"-"`
	Company     string    `json:"company"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
	Category    Category  `json:"category"`
	IsAdmitted  bool      `json:"is_admitted"`
	JobType     JobType   `json:"job_type"`
	Source      string    `json:"source"`
	URL         string    `json:"url,omitempty"`
	FirstSeen   time.Time `json:"first_seen"`
	LastSeen    time.Time `json:"last_seen"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// JobFilter narrows listing queries. IncludeExcluded is only honored for
// callers that passed the admin check; everyone else sees admitted rows.
type JobFilter struct {
	Company         string
	Location        string
	Category        Category
	JobType         JobType
	IncludeExcluded bool
	Limit           int
	Offset          int
}

// ScrapedJob is a raw posting from an ingestion feed, before classification.
type ScrapedJob struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
}

// JobHash identifies a posting across scrape runs for deduplication.
func JobHash(company, title, location string) string {
	data := strings.ToLower(strings.TrimSpace(company + title + location))
	sum := md5.Sum([]byte(data))
	return hex.EncodeToString(sum[:])
}
