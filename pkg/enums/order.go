package enums

import "fmt"

// PickupMethod describes how the customer receives the bouquet.
type PickupMethod string

const (
	PickupMethodInStore  PickupMethod = "in_store"
	PickupMethodDelivery PickupMethod = "delivery"
)

var validPickupMethods = []PickupMethod{PickupMethodInStore, PickupMethodDelivery}

func (p PickupMethod) IsValid() bool {
	for _, candidate := range validPickupMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

func ParsePickupMethod(value string) (PickupMethod, error) {
	for _, candidate := range validPickupMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pickup method %q", value)
}

// PaymentMethod is recorded for the shop; no payment is captured.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodOnline PaymentMethod = "online"
)

var validPaymentMethods = []PaymentMethod{PaymentMethodCash, PaymentMethodCard, PaymentMethodOnline}

func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
