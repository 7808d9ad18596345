package sanitizer

// Apply runs the transforms over value left to right and returns the result.
func Apply[T any](value T, transforms ...func(T) T) T {
	result := value
	for _, transform := range transforms {
		result = transform(result)
	}
	return result
}

// Compose bundles transforms into a single reusable function. Use it when the
// same chain is applied in more than one place.
func Compose[T any](transforms ...func(T) T) func(T) T {
	return func(value T) T {
		return Apply(value, transforms...)
	}
}
