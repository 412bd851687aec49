package constant

const (
	// HeaderID is the request identifier header key.
	HeaderID = "X-Request-Id"
	// HeaderTraceparent is the W3C traceparent header key.
	HeaderTraceparent = "Traceparent"
	// HeaderUserAgent is the HTTP User-Agent header key.
	HeaderUserAgent = "User-Agent"
	// HeaderContentType is the HTTP Content-Type header key.
	HeaderContentType = "Content-Type"
	// HeaderAcceptLanguage selects the locale for user-facing messages.
	HeaderAcceptLanguage = "Accept-Language"
	// IdempotenceKey carries the retry-stable key on money-moving commits.
	IdempotenceKey = "Idempotence-Key"
	// Authorization is the HTTP Authorization header key.
	Authorization = "Authorization"
	// Bearer is the HTTP Bearer auth scheme token.
	Bearer = "Bearer"
	// ContentTypeJSON is the media type of every backend payload.
	ContentTypeJSON = "application/json"
)
