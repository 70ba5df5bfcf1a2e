package headerscan

// SecurityHeaders lists the response headers a scan checks for, in the order
// they are reported.
var SecurityHeaders = []string{ //nolint: gochecknoglobals
	"Strict-Transport-Security",
	"Content-Security-Policy",
	"X-Content-Type-Options",
	"X-Frame-Options",
	"X-XSS-Protection",
	"Referrer-Policy",
	"Permissions-Policy",
	"Access-Control-Allow-Origin",
	"Cache-Control",
	"Set-Cookie", // presence only; cookie flags are not inspected
	"Feature-Policy",
	"Expect-CT",
}
