package domain

// RegistrationState is a stage of the public registration flow
type RegistrationState string

const (
	RegistrationStep1     RegistrationState = "step1"
	RegistrationStep2     RegistrationState = "step2"
	RegistrationConfirmed RegistrationState = "confirmed"
)

// StateForStep maps a form step number onto its state
func StateForStep(step int) RegistrationState {
	switch step {
	case 1:
		return RegistrationStep1
	case 2:
		return RegistrationStep2
	default:
		return RegistrationConfirmed
	}
}

// Next returns the state that follows a completed step
func (s RegistrationState) Next() RegistrationState {
	switch s {
	case RegistrationStep1:
		return RegistrationStep2
	default:
		return RegistrationConfirmed
	}
}

// FixedField is a built-in registration question every tenant asks
type FixedField struct {
	Name     string     `json:"name"`
	Label    string     `json:"label"`
	Step     int        `json:"step"`
	Required bool       `json:"required"`
	Render   RenderSpec `json:"render"`
}

// Fixed field names
const (
	FieldFirstName           = "first_name"
	FieldLastName            = "last_name"
	FieldEmail               = "email"
	FieldPhone               = "phone"
	FieldGuestCategory       = "guest_category"
	FieldCompanyOrIndividual = "company_or_individual"
	FieldDietary             = "dietary_restrictions"
	FieldAgreeTerms          = "agree_terms"
)

// FixedFields returns the built-in questions of both steps
func FixedFields(dietaryOptions []string) []FixedField {
	text := RenderSpec{Control: ControlTextInput, InputType: "text"}
	return []FixedField{
		{Name: FieldFirstName, Label: "First Name", Step: 1, Required: true, Render: text},
		{Name: FieldLastName, Label: "Last Name", Step: 1, Required: true, Render: text},
		{Name: FieldEmail, Label: "Email", Step: 1, Required: true, Render: RenderSpec{Control: ControlTextInput, InputType: "email"}},
		{Name: FieldPhone, Label: "Phone", Step: 1, Required: true, Render: RenderSpec{Control: ControlTextInput, InputType: "tel"}},
		{Name: FieldGuestCategory, Label: "Guest Category", Step: 1, Required: true, Render: RenderSpec{Control: ControlSingleChoice, Options: GuestCategories()}},
		{Name: FieldCompanyOrIndividual, Label: "Company or Individual", Step: 1, Required: true, Render: text},
		{Name: FieldDietary, Label: "Dietary Restrictions", Step: 2, Required: false, Render: RenderSpec{Control: ControlSingleChoice, Options: dietaryOptions}},
		{Name: FieldAgreeTerms, Label: "I agree to the terms and conditions", Step: 2, Required: true, Render: RenderSpec{Control: ControlBoolean}},
	}
}
