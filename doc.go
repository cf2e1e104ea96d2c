// Package main provides the entry point for the vehicle revenue administration
// portal. It runs a web service using the Fiber framework that lets government
// roles (state admins, LGA admins, agents, compliance agents and vehicle owners)
// manage vehicles, owners, LGA records, fee settings and transaction reporting
// through a role-scoped JSON API. The application uses gorm for data persistence.
package main
