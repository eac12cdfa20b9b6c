package model

// OTPPurpose distinguishes the flows a one-time code can be issued for.
type OTPPurpose string

const (
	OTPPurposeRegister OTPPurpose = "register"
	OTPPurposeReset    OTPPurpose = "reset"
)
