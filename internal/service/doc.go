// Package service contains the Auth module's business services, implemented
// as execution-pipeline services: each one holds its collaborators (stores,
// token service, auditor) and a Process method that runs inside the
// transaction opened by the pipeline executor.
//
// Services never read ambient authentication state; the acting user's
// identity arrives explicitly in the input.
package service
