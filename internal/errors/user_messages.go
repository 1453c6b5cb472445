package errors

// User-friendly error messages
const (
	MsgServiceUnavailable = "Les annonces sont indisponibles pour le moment. Veuillez réessayer plus tard."
	MsgRateLimited        = "Trop de requêtes. Veuillez patienter un instant."
	MsgInternalError      = "Une erreur est survenue. Veuillez réessayer plus tard."
)
