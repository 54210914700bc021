package langdetect

import (
	"testing"
)

func BenchmarkCanonical(b *testing.B) {
	for range b.N {
		Canonical("golang")
	}
}

func BenchmarkDetectGo(b *testing.B) {
	code := []byte(`package main

import "fmt"

func main() {
	fmt.Println("Hello, World!")
}`)
	b.ResetTimer()
	for range b.N {
		Detect(code)
	}
}

func BenchmarkDetectShebang(b *testing.B) {
	code := []byte("#!/usr/bin/env python3\nprint('hello')\n")
	b.ResetTimer()
	for range b.N {
		Detect(code)
	}
}

func BenchmarkDetectEmpty(b *testing.B) {
	code := []byte("")
	b.ResetTimer()
	for range b.N {
		Detect(code)
	}
}
