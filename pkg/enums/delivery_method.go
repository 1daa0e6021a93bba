package enums

import "fmt"

// DeliveryMethod is how a beneficiary receives an approved request.
type DeliveryMethod string

const (
	DeliveryMethodRetirada         DeliveryMethod = "RETIRADA"
	DeliveryMethodEntregaDomicilio DeliveryMethod = "ENTREGA_DOMICILIO"
)

var validDeliveryMethods = []DeliveryMethod{
	DeliveryMethodRetirada,
	DeliveryMethodEntregaDomicilio,
}

// String implements fmt.Stringer.
func (m DeliveryMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known DeliveryMethod.
func (m DeliveryMethod) IsValid() bool {
	for _, candidate := range validDeliveryMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseDeliveryMethod converts raw input into a DeliveryMethod.
func ParseDeliveryMethod(value string) (DeliveryMethod, error) {
	for _, candidate := range validDeliveryMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery method %q", value)
}
