package main

import (
	"github.com/eleven-am/call-backend/internal/bootstrap"
)

func main() {
	bootstrap.Run()
}
