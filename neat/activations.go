package neat

import (
	"fmt"
	"math"
)

// ActivationType defines the type for activation functions.
type ActivationType func(x float64) float64

// DefaultActivation is the hidden-node activation used when none is configured.
// atan is bounded, smooth and zero-centered, and keeps a usable slope far from zero.
const DefaultActivation = "atan"

// ActivationFunctions maps function names to the actual activation functions.
// This allows configuration to specify activations by name.
var ActivationFunctions = map[string]ActivationType{
	"atan":     Atan,
	"tanh":     Tanh,
	"sigmoid":  Sigmoid,
	"identity": Identity,
	"relu":     ReLU,
	"clamped":  Clamped,
}

// GetActivation retrieves an activation function by name.
func GetActivation(name string) (ActivationType, error) {
	if fn, ok := ActivationFunctions[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown activation function: %s", name)
}

// Atan activation function.
func Atan(x float64) float64 {
	return math.Atan(x)
}

// Tanh activation function.
func Tanh(x float64) float64 {
	return math.Tanh(x)
}

// Sigmoid is the logistic function with the steepness neat-python uses.
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-4.9*x))
}

// Identity activation function (linear).
func Identity(x float64) float64 {
	return x
}

// ReLU (Rectified Linear Unit) activation function.
func ReLU(x float64) float64 {
	return math.Max(0, x)
}

// Clamped activation function (clamps output between -1 and 1).
func Clamped(x float64) float64 {
	return math.Max(-1.0, math.Min(x, 1.0))
}
