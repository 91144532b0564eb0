package utils

// fibonacci returns successive Fibonacci numbers starting from 1.
func fibonacci() func() int {
	a, b := 0, 1
	return func() int {
		a, b = b, a+b
		return a
	}
}

// FibonacciNext returns the first Fibonacci number greater than start.
func FibonacciNext(start int) int {
	fib := fibonacci()
	num := fib()
	for num <= start {
		num = fib()
	}
	return num
}

// Backoff returns the backoff step after start, clamped to max.
func Backoff(start, max int) int {
	num := FibonacciNext(start)
	if num > max {
		return max
	}
	return num
}
