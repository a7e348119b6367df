// Package main содержит точку входа административного CLI:
//
//	manage migrate up|down
//	manage createsuperuser --email admin@example.com
package main

import "github.com/IvanChernomyrdin/go-recipe-api/internal/manage"

func main() {
	manage.Execute()
}
