package analysis

import "regexp"

// Category is a single class of contractual concern with its detection rules.
// Categories are compiled once and never mutated after construction.
type Category struct {
	Key         string
	Patterns    []*regexp.Regexp
	Keywords    []string
	DisplayName string
}

// Taxonomy is an ordered, immutable collection of categories. Iteration
// order is registration order and determines display order of findings.
type Taxonomy struct {
	categories []Category
}

// NewTaxonomy builds a taxonomy from the given categories, preserving order.
func NewTaxonomy(categories ...Category) *Taxonomy {
	return &Taxonomy{categories: categories}
}

// Categories returns the categories in registration order.
func (t *Taxonomy) Categories() []Category {
	return t.categories
}

// Len returns the number of categories.
func (t *Taxonomy) Len() int {
	return len(t.categories)
}

func mustCompile(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile("(?i)" + p)
	}
	return compiled
}

// DefaultTaxonomy returns the reference taxonomy for terms-of-service
// documents: seven categories of clauses worth surfacing to a reader.
func DefaultTaxonomy() *Taxonomy {
	return NewTaxonomy(
		Category{
			Key: "permissions_asked",
			Patterns: mustCompile(
				`we (?:may )?(?:collect|access|gather|obtain|use|process|store)`,
				`information (?:we|may) (?:collect|gather|access)`,
				`(?:location|contact|camera|microphone|photo|device) (?:data|information|access)`,
				`permission to (?:access|use|collect)`,
				`we (?:may )?(?:track|monitor|record)`,
				`browsing (?:history|data|information)`,
				`personal (?:data|information) (?:includes?|such as)`,
				`automatically collect`,
				`usage (?:data|information|statistics)`,
				`cookies and (?:similar )?technologies`,
				`device identifiers?`,
				`ip address`,
			),
			Keywords: []string{
				"collect personal data", "access your", "gather information",
				"location data", "contact information", "device information",
				"browsing history", "usage data", "automatically collect",
				"cookies", "tracking pixels", "analytics data", "log files",
				"device identifiers", "ip address", "user behavior",
			},
			DisplayName: "🔐 Data Collection & Permissions",
		},
		Category{
			Key: "privacy_concerns",
			Patterns: mustCompile(
				`(?:share|sell|disclose|provide) (?:your )?(?:personal )?(?:data|information)`,
				`third[- ]party (?:partners|services|companies)`,
				`(?:marketing|advertising|promotional) purposes`,
				`targeted (?:ads|advertising|marketing)`,
				`behavioral (?:tracking|targeting|advertising)`,
				`profile (?:you|your (?:interests|preferences))`,
				`(?:sell|transfer|share) (?:to|with) (?:third parties|partners|advertisers)`,
				`data (?:sharing|transfer) agreements?`,
				`business (?:partners|affiliates)`,
			),
			Keywords: []string{
				"share with third parties", "sell your information", "marketing purposes",
				"advertising partners", "data sharing", "third party services",
				"targeted advertising", "behavioral tracking", "profiling",
				"partners and affiliates", "service providers", "data brokers",
				"cross-border transfer", "international transfer",
			},
			DisplayName: "🔒 Data Sharing & Privacy",
		},
		Category{
			Key: "payment_terms",
			Patterns: mustCompile(
				`(?:subscription|payment|billing|fee|charge)s? (?:will|are|may)`,
				`(?:auto|automatic)(?:matic)?(?:ally)? (?:renew|charge|bill)`,
				`(?:non[- ]?refundable|no refund)`,
				`free trial (?:will|ends|expires)`,
				`cancel(?:lation)? (?:policy|terms|fee)`,
				`payment (?:method|information) (?:will|may)`,
				`recurring (?:payment|billing|subscription)`,
				`prorated (?:charges?|billing)`,
				`early termination fee`,
			),
			Keywords: []string{
				"subscription fee", "automatic renewal", "auto-renew", "billing cycle",
				"non-refundable", "no refunds", "cancellation policy", "free trial",
				"recurring payment", "payment method", "billing information",
				"prorated charges", "early termination", "upgrade fees",
			},
			DisplayName: "💳 Payment & Subscription Terms",
		},
		Category{
			Key: "account_control",
			Patterns: mustCompile(
				`(?:terminate|suspend|disable|deactivate|ban) (?:your )?account`,
				`(?:at our|in our) (?:sole )?discretion`,
				`without (?:prior )?notice`,
				`(?:violate|breach) (?:these )?terms`,
				`restrict (?:your )?access`,
				`we (?:may|reserve the right to) (?:suspend|terminate|disable)`,
				`immediate (?:termination|suspension)`,
				`for any reason`,
			),
			Keywords: []string{
				"terminate your account", "suspend service", "ban users",
				"sole discretion", "without notice", "restrict access",
				"violate terms", "breach agreement", "disable account",
				"immediate termination", "for any reason", "reserve the right",
			},
			DisplayName: "⚠️ Account Termination Rights",
		},
		Category{
			Key: "content_rights",
			Patterns: mustCompile(
				`(?:grant|give) (?:us )?(?:a )?(?:license|right)`,
				`(?:royalty[- ]?free|worldwide|perpetual) (?:license|right)`,
				`(?:use|modify|distribute|display) (?:your )?content`,
				`intellectual property (?:rights?|ownership)`,
				`user[- ]generated content`,
				`retain (?:all )?rights? (?:to|in)`,
				`sublicense (?:your )?content`,
				`derivative works`,
			),
			Keywords: []string{
				"license to use", "royalty-free license", "user content rights",
				"intellectual property", "worldwide license", "perpetual license",
				"modify your content", "distribute content", "ownership rights",
				"sublicense", "derivative works", "commercial use",
			},
			DisplayName: "📝 Content & IP Rights",
		},
		Category{
			Key: "legal_protection",
			Patterns: mustCompile(
				`(?:limitation of|limit our) liability`,
				`(?:disclaim|disclaimer) (?:all )?(?:warranties|liability)`,
				`(?:indemnify|hold (?:us )?harmless)`,
				`(?:binding )?arbitration`,
				`class action waiver`,
				`dispute resolution`,
				`(?:as[- ]?is|without warranty)`,
				`consequential damages`,
				`maximum liability`,
			),
			Keywords: []string{
				"limitation of liability", "no warranty", "as-is basis",
				"binding arbitration", "class action waiver", "indemnification",
				"hold harmless", "dispute resolution", "disclaim liability",
				"consequential damages", "maximum liability", "legal fees",
			},
			DisplayName: "⚖️ Legal Disclaimers",
		},
		Category{
			Key: "changes_updates",
			Patterns: mustCompile(
				`(?:change|modify|update|revise) (?:these )?terms`,
				`(?:at any time|from time to time)`,
				`continued use (?:constitutes|means)`,
				`(?:notify|notice) (?:you )?(?:of|about) changes`,
				`(?:new|updated) terms (?:will|become) (?:effective|binding)`,
				`without (?:prior )?notice`,
				`sole discretion`,
			),
			Keywords: []string{
				"change terms", "modify agreement", "update policy",
				"at any time", "continued use", "notification of changes",
				"terms effective", "policy updates", "without notice",
				"sole discretion", "unilateral changes",
			},
			DisplayName: "📋 Terms Modification Rights",
		},
	)
}
