package geography

// Region labels used by the reference table.
const (
	RegionNorthAmerica = "north_america"
	RegionSouthAmerica = "south_america"
	RegionEurope       = "europe"
	RegionEastAsia     = "east_asia"
	RegionSouthAsia    = "south_asia"
	RegionCentralAsia  = "central_asia"
	RegionMiddleEast   = "middle_east"
	RegionAfrica       = "africa"
	RegionOceania      = "oceania"
)

// countryTable is the built-in reference data. Codes are ISO 3166-1 alpha-2.
var countryTable = []Country{
	{Code: "US", Name: "United States", Region: RegionNorthAmerica, Aliases: []string{"usa", "united states of america", "america", "u.s.", "u.s.a."}},
	{Code: "CA", Name: "Canada", Region: RegionNorthAmerica},
	{Code: "MX", Name: "Mexico", Region: RegionNorthAmerica, Aliases: []string{"méxico"}},
	{Code: "CU", Name: "Cuba", Region: RegionNorthAmerica},
	{Code: "BR", Name: "Brazil", Region: RegionSouthAmerica, Aliases: []string{"brasil"}},
	{Code: "AR", Name: "Argentina", Region: RegionSouthAmerica},
	{Code: "CL", Name: "Chile", Region: RegionSouthAmerica},
	{Code: "CO", Name: "Colombia", Region: RegionSouthAmerica},
	{Code: "PE", Name: "Peru", Region: RegionSouthAmerica},
	{Code: "VE", Name: "Venezuela", Region: RegionSouthAmerica},
	{Code: "GB", Name: "United Kingdom", Region: RegionEurope, Aliases: []string{"uk", "great britain", "britain", "england", "scotland", "wales"}},
	{Code: "FR", Name: "France", Region: RegionEurope},
	{Code: "DE", Name: "Germany", Region: RegionEurope, Aliases: []string{"deutschland"}},
	{Code: "IT", Name: "Italy", Region: RegionEurope, Aliases: []string{"italia"}},
	{Code: "ES", Name: "Spain", Region: RegionEurope, Aliases: []string{"españa", "espana"}},
	{Code: "PT", Name: "Portugal", Region: RegionEurope},
	{Code: "NL", Name: "Netherlands", Region: RegionEurope, Aliases: []string{"holland", "the netherlands"}},
	{Code: "BE", Name: "Belgium", Region: RegionEurope},
	{Code: "CH", Name: "Switzerland", Region: RegionEurope},
	{Code: "AT", Name: "Austria", Region: RegionEurope},
	{Code: "SE", Name: "Sweden", Region: RegionEurope},
	{Code: "NO", Name: "Norway", Region: RegionEurope},
	{Code: "DK", Name: "Denmark", Region: RegionEurope},
	{Code: "FI", Name: "Finland", Region: RegionEurope},
	{Code: "PL", Name: "Poland", Region: RegionEurope, Aliases: []string{"polska"}},
	{Code: "CZ", Name: "Czech Republic", Region: RegionEurope, Aliases: []string{"czechia"}},
	{Code: "HU", Name: "Hungary", Region: RegionEurope},
	{Code: "RO", Name: "Romania", Region: RegionEurope},
	{Code: "GR", Name: "Greece", Region: RegionEurope},
	{Code: "IE", Name: "Ireland", Region: RegionEurope},
	{Code: "UA", Name: "Ukraine", Region: RegionEurope},
	{Code: "RU", Name: "Russia", Region: RegionEurope, Aliases: []string{"russian federation", "ussr"}},
	{Code: "TR", Name: "Turkey", Region: RegionMiddleEast, Aliases: []string{"türkiye", "turkiye"}},
	{Code: "CN", Name: "China", Region: RegionEastAsia, Aliases: []string{"prc", "people's republic of china", "peoples republic of china", "中国"}},
	{Code: "JP", Name: "Japan", Region: RegionEastAsia},
	{Code: "KR", Name: "South Korea", Region: RegionEastAsia, Aliases: []string{"republic of korea", "korea"}},
	{Code: "KP", Name: "North Korea", Region: RegionEastAsia, Aliases: []string{"dprk", "democratic people's republic of korea"}},
	{Code: "TW", Name: "Taiwan", Region: RegionEastAsia},
	{Code: "HK", Name: "Hong Kong", Region: RegionEastAsia},
	{Code: "SG", Name: "Singapore", Region: RegionEastAsia},
	{Code: "MY", Name: "Malaysia", Region: RegionEastAsia},
	{Code: "TH", Name: "Thailand", Region: RegionEastAsia},
	{Code: "VN", Name: "Vietnam", Region: RegionEastAsia, Aliases: []string{"viet nam"}},
	{Code: "PH", Name: "Philippines", Region: RegionEastAsia},
	{Code: "ID", Name: "Indonesia", Region: RegionEastAsia},
	{Code: "IN", Name: "India", Region: RegionSouthAsia},
	{Code: "PK", Name: "Pakistan", Region: RegionSouthAsia},
	{Code: "BD", Name: "Bangladesh", Region: RegionSouthAsia},
	{Code: "LK", Name: "Sri Lanka", Region: RegionSouthAsia},
	{Code: "NP", Name: "Nepal", Region: RegionSouthAsia},
	{Code: "AF", Name: "Afghanistan", Region: RegionCentralAsia},
	{Code: "KZ", Name: "Kazakhstan", Region: RegionCentralAsia},
	{Code: "UZ", Name: "Uzbekistan", Region: RegionCentralAsia},
	{Code: "IR", Name: "Iran", Region: RegionMiddleEast, Aliases: []string{"islamic republic of iran", "persia"}},
	{Code: "IQ", Name: "Iraq", Region: RegionMiddleEast},
	{Code: "SY", Name: "Syria", Region: RegionMiddleEast, Aliases: []string{"syrian arab republic"}},
	{Code: "LB", Name: "Lebanon", Region: RegionMiddleEast},
	{Code: "IL", Name: "Israel", Region: RegionMiddleEast},
	{Code: "PS", Name: "Palestine", Region: RegionMiddleEast, Aliases: []string{"palestinian territories", "gaza", "west bank"}},
	{Code: "JO", Name: "Jordan", Region: RegionMiddleEast},
	{Code: "SA", Name: "Saudi Arabia", Region: RegionMiddleEast, Aliases: []string{"ksa"}},
	{Code: "AE", Name: "United Arab Emirates", Region: RegionMiddleEast, Aliases: []string{"uae", "dubai", "abu dhabi"}},
	{Code: "QA", Name: "Qatar", Region: RegionMiddleEast},
	{Code: "KW", Name: "Kuwait", Region: RegionMiddleEast},
	{Code: "BH", Name: "Bahrain", Region: RegionMiddleEast},
	{Code: "OM", Name: "Oman", Region: RegionMiddleEast},
	{Code: "YE", Name: "Yemen", Region: RegionMiddleEast},
	{Code: "EG", Name: "Egypt", Region: RegionAfrica},
	{Code: "LY", Name: "Libya", Region: RegionAfrica},
	{Code: "TN", Name: "Tunisia", Region: RegionAfrica},
	{Code: "DZ", Name: "Algeria", Region: RegionAfrica},
	{Code: "MA", Name: "Morocco", Region: RegionAfrica},
	{Code: "SD", Name: "Sudan", Region: RegionAfrica},
	{Code: "SO", Name: "Somalia", Region: RegionAfrica},
	{Code: "ET", Name: "Ethiopia", Region: RegionAfrica},
	{Code: "KE", Name: "Kenya", Region: RegionAfrica},
	{Code: "NG", Name: "Nigeria", Region: RegionAfrica},
	{Code: "ZA", Name: "South Africa", Region: RegionAfrica},
	{Code: "ML", Name: "Mali", Region: RegionAfrica},
	{Code: "AU", Name: "Australia", Region: RegionOceania},
	{Code: "NZ", Name: "New Zealand", Region: RegionOceania},
}
