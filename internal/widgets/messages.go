package widgets

// Message formats. They double as translation keys for internal/i18n.
const (
	MsgInvalidParameter = `Invalid parameter "%[1]s": %[2]s.`

	MsgStringExpected  = "a character string is expected"
	MsgIntegerExpected = "an integer is expected"
	MsgArrayExpected   = "an array is expected"
	MsgNumberExpected  = "a number is expected"
	MsgColorExpected   = "a hexadecimal color code (6 symbols) is expected"
	MsgCannotBeEmpty   = "cannot be empty"
	MsgTooLong         = "value is too long"
	MsgOneOf           = "value must be one of %s"
	MsgMissing         = `the parameter "%s" is missing`
	MsgUnexpected      = `unexpected parameter "%s"`
	MsgReference       = "a reference is expected"

	MsgDateExpected = "a date is expected"
	MsgTimeExpected = "a time is expected"
)
