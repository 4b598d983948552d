// Package docs provides generated OpenAPI documentation.
//
// Timetable API
//
//	@title			Timetable API
//	@version		1.0
//	@description	Builds personalized weekly timetables from a campus timetable grid and compares two of them.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/timetable
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/timetable/serve.go -o ./swagger --outputTypes json --parseDependency --parseInternal
