package templating

// add returns a + b.
func add(a, b int) int {
	return a + b
}

// sub returns a - b.
func sub(a, b int) int {
	return a - b
}

// mult returns a * b.
func mult(a, b int) int {
	return a * b
}

// div returns a / b (integer division). Returns 0 if b is 0.
func div(a, b int) int {
	if b == 0 {
		return 0
	}
	return a / b
}

// mod returns a % b. Returns 0 if b is 0.
func mod(a, b int) int {
	if b == 0 {
		return 0
	}
	return a % b
}

// inc returns i + 1.
func inc(i int) int {
	return i + 1
}

// dec returns i - 1.
func dec(i int) int {
	return i - 1
}
