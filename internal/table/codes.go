package table

// Ingestion notice codes.
const (
	CodeCSVParsingFailed            = "csv_parsing_failed"
	CodeEmptyFile                   = "empty_file"
	CodeDuplicatedColumn            = "duplicated_column"
	CodeEmptyColumnName             = "empty_column_name"
	CodeUnknownColumn               = "unknown_column"
	CodeMissingRequiredColumn       = "missing_required_column"
	CodeInvalidRowLength            = "invalid_row_length"
	CodeEmptyRow                    = "empty_row"
	CodeLeadingOrTrailingWhitespace = "leading_or_trailing_whitespaces"
	CodeNewLineInValue              = "new_line_in_value"
	CodeMissingRequiredField        = "missing_required_field"

	CodeInvalidInteger      = "invalid_integer"
	CodeInvalidFloat        = "invalid_float"
	CodeInvalidDate         = "invalid_date"
	CodeInvalidTime         = "invalid_time"
	CodeInvalidColor        = "invalid_color"
	CodeUnexpectedEnumValue = "unexpected_enum_value"
	CodeInvalidURL          = "invalid_url"
	CodeInvalidEmail        = "invalid_email"
	CodeInvalidTimezone     = "invalid_timezone"
	CodeInvalidLanguageCode = "invalid_language_code"
	CodeInvalidCurrency     = "invalid_currency"
)
