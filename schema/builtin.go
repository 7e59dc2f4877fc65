package schema

// Well-known field ids referenced by the built-in rules.
const (
	FieldFirstName   = "firstname"
	FieldLastName    = "lastname"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldState       = "state"
	FieldCity        = "city"
	FieldZip         = "zip"
	FieldRole        = "role"
	FieldProgramType = "program_type"
	FieldSolution    = "solution"
	FieldNewsletter  = "newsletter_opt_in"
	FieldStartDate   = "start_date"
	FieldCompanyName = "name"
	FieldDomain      = "domain"
	FieldIndustry    = "industry"
	FieldCloseDate   = "close_date"
)

// BuiltinFields returns the default schema field catalog. Callers get a
// fresh slice on every call so overlays cannot corrupt the defaults.
func BuiltinFields() []Field {
	return []Field{
		{
			ID:         FieldFirstName,
			Label:      "First Name",
			ObjectType: ObjectContact,
			Variants:   []string{"first name", "first", "fname", "given name", "forename"},
		},
		{
			ID:         FieldLastName,
			Label:      "Last Name",
			ObjectType: ObjectContact,
			Variants:   []string{"last name", "last", "lname", "surname", "family name"},
		},
		{
			ID:         FieldEmail,
			Label:      "Email",
			ObjectType: ObjectContact,
			Variants:   []string{"email", "email address", "e-mail", "mail", "work email"},
			Required:   true,
		},
		{
			ID:         FieldPhone,
			Label:      "Phone Number",
			ObjectType: ObjectContact,
			Variants:   []string{"phone", "phone number", "telephone", "mobile", "cell", "contact number"},
		},
		{
			ID:         FieldState,
			Label:      "State",
			ObjectType: ObjectContact,
			Variants:   []string{"state", "state/province", "province", "region"},
		},
		{
			ID:         FieldCity,
			Label:      "City",
			ObjectType: ObjectContact,
			Variants:   []string{"city", "town", "municipality"},
		},
		{
			ID:         FieldZip,
			Label:      "Postal Code",
			ObjectType: ObjectContact,
			Variants:   []string{"zip", "zip code", "postal code", "postcode"},
		},
		{
			ID:         FieldRole,
			Label:      "Role",
			ObjectType: ObjectContact,
			Variants:   []string{"role", "job title", "title", "position", "job role"},
		},
		{
			ID:         FieldProgramType,
			Label:      "Program Type",
			ObjectType: ObjectContact,
			Variants:   []string{"program type", "program", "program model"},
		},
		{
			ID:         FieldSolution,
			Label:      "Solution",
			ObjectType: ObjectContact,
			Variants:   []string{"solution", "product", "product interest", "solution interest"},
		},
		{
			ID:         FieldNewsletter,
			Label:      "Newsletter Opt-In",
			ObjectType: ObjectContact,
			Variants:   []string{"newsletter", "newsletter opt in", "opt in", "subscribed", "email opt in"},
		},
		{
			ID:         FieldStartDate,
			Label:      "Start Date",
			ObjectType: ObjectContact,
			Variants:   []string{"start date", "started", "enrollment date", "date started"},
		},
		{
			ID:         FieldCompanyName,
			Label:      "Company Name",
			ObjectType: ObjectCompany,
			Variants:   []string{"company", "company name", "organization", "organisation", "account name", "school", "district"},
		},
		{
			ID:         FieldDomain,
			Label:      "Company Domain",
			ObjectType: ObjectCompany,
			Variants:   []string{"domain", "website", "company website", "url", "web site"},
		},
		{
			ID:         FieldIndustry,
			Label:      "Industry",
			ObjectType: ObjectCompany,
			Variants:   []string{"industry", "sector", "vertical"},
		},
		{
			ID:         FieldCloseDate,
			Label:      "Close Date",
			ObjectType: ObjectDeal,
			Variants:   []string{"close date", "closed", "deal close date"},
		},
	}
}

// BuiltinCatalog returns a catalog of the default fields.
func BuiltinCatalog() *Catalog {
	c, err := NewCatalog(BuiltinFields())
	if err != nil {
		// The builtin field set is static and known to be unique.
		panic(err)
	}
	return c
}
