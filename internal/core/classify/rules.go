package classify

import (
	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
)

// Rule binds one category to its keyword patterns. Phrases match as
// lowercase substrings; Tokens match whole words only, which keeps short
// acronyms like PE or VaR from firing inside unrelated words.
type Rule struct {
	Category domain.Category
	Admitted bool
	Phrases  []string
	Tokens   []string
}

// DefaultRules is the fixed priority order: admitted categories first, then
// excluded, first match wins. The slice order is the documented total order;
// re-runs over the same text always yield the same category.
func DefaultRules() []Rule {
	return []Rule{
		{
			Category: domain.CategoryInvestmentBanking,
			Admitted: true,
			Phrases: []string{
				"investment banking", "m&a", "mergers and acquisitions", "capital markets",
				"equity capital markets", "debt capital markets", "corporate finance",
				"financial advisory", "restructuring advisory", "leveraged finance",
				"sponsor coverage", "industry coverage",
			},
			Tokens: []string{"ecm", "dcm"},
		},
		{
			Category: domain.CategorySalesTrading,
			Admitted: true,
			Phrases: []string{
				"sales and trading", "trading", "trader", "sales trader",
				"equity sales", "fixed income sales", "fx sales", "forex sales",
				"commodities sales", "derivatives sales", "structured products",
				"market maker", "market making", "flow trading", "prop trading",
				"proprietary trading", "execution services", "agency trading",
			},
		},
		{
			Category: domain.CategoryPortfolioManagement,
			Admitted: true,
			Phrases: []string{
				"portfolio management", "portfolio manager", "investment management",
				"fund manager", "asset management", "wealth management",
				"private wealth", "family office", "alternative investments",
				"hedge fund", "private equity investment", "venture capital investment",
				"multi-asset", "equity portfolio", "fixed income portfolio",
			},
		},
		{
			Category: domain.CategoryRiskManagement,
			Admitted: true,
			Phrases: []string{
				"risk management", "market risk", "credit risk", "operational risk",
				"enterprise risk", "risk analytics", "stress testing", "scenario analysis",
				"value at risk", "credit valuation adjustment", "counterparty risk",
				"liquidity risk", "model risk", "trading risk",
			},
			Tokens: []string{"var", "cva"},
		},
		{
			Category: domain.CategoryMAAdvisory,
			Admitted: true,
			Phrases: []string{
				"m&a advisory", "merger advisory", "acquisition advisory",
				"strategic advisory", "corporate development", "deal execution",
				"buy-side advisory", "sell-side advisory", "fairness opinion",
				"valuation advisory",
			},
		},
		{
			Category: domain.CategoryPrivateEquity,
			Admitted: true,
			Phrases: []string{
				"private equity", "buyout", "growth equity", "venture capital",
				"principal investing", "direct investment", "fund investing",
			},
			Tokens: []string{"pe", "vc"},
		},
		{
			Category: domain.CategoryStructuring,
			Admitted: true,
			Phrases: []string{
				"structuring", "structured products", "derivatives structuring",
				"solutions", "bespoke solutions", "quantitative structuring",
			},
		},

		{
			Category: domain.CategoryAccounting,
			Phrases: []string{
				"accountant", "accounting", "bookkeeping", "accounts payable",
				"accounts receivable", "general ledger", "financial reporting analyst",
				"statutory reporting", "tax reporting", "gaap", "ifrs reporting",
			},
		},
		{
			Category: domain.CategoryAudit,
			Phrases: []string{
				"audit", "auditor", "internal audit", "external audit",
				"sox compliance", "sarbanes-oxley", "audit associate",
				"audit senior", "assurance",
			},
		},
		{
			Category: domain.CategoryBackOffice,
			Phrases: []string{
				"back office", "settlement", "reconciliation", "trade support",
				"operations analyst", "transaction processing", "clearing",
				"custody", "fund administration", "transfer agency",
			},
		},
		{
			Category: domain.CategoryBasicDataScience,
			Phrases: []string{
				"data entry", "data analyst", "reporting analyst",
				"management information systems", "dashboard",
				"business intelligence analyst", "data visualization",
				"reporting coordinator",
			},
			Tokens: []string{"mis"},
		},
		{
			Category: domain.CategoryComplianceReports,
			Phrases: []string{
				"compliance reporting", "regulatory reporting", "kyc analyst",
				"aml analyst", "sanctions screening", "transaction monitoring analyst",
				"compliance associate", "compliance analyst",
			},
		},
		{
			Category: domain.CategoryAdministrative,
			Phrases: []string{
				"administrative", "coordinator", "executive assistant",
				"office manager", "receptionist", "clerk",
			},
		},
	}
}

// seniorTerms suppress exclusion for leadership titles: "Head of Audit" is
// still a judgment role even though "audit" is an excluded keyword.
var seniorTerms = []string{"head of", "chief", "director of", "vp of"}
