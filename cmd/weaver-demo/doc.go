// Command weaver-demo is a runnable tour of the weaver container.
//
// It loads environment configuration from a .env file (when present),
// feeds it into a container as the Env token, and builds the usual chain
// on top:
//
//	Env (token) → Config → Database → Service
//
// then prints the service description, demonstrates a redirected method
// call (Report.Export handled by a lazily loaded Exporter), and finishes
// with a mock overlay on a cloned container.
//
// Usage:
//
//	weaver-demo [-env path/to/.env]
//
// Recognized environment variables:
//
//	APP_NAME  service name for the demo output (default "weaver-demo")
//	APP_ENV   environment name, e.g. dev, staging, prod (default "dev")
package main
