package payment

func validateInput(input Input) error {
	if input.DispatchID <= 0 {
		return ErrInvalidDispatchID
	}
	if input.AmountInCents <= 0 {
		return ErrInvalidAmount
	}
	if !input.Method.IsValid() {
		return ErrInvalidMethod
	}
	return nil
}
