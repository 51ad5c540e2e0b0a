package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrTeacherAccessOnly ErrCode = "TEACHER_ACCESS_ONLY"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrConflict        ErrCode = "CONFLICT"
	ErrActionForbidden ErrCode = "ACTION_FORBIDDEN"

	// ─── Courses & groups ──────────────────────────────────────────────
	ErrCodeUnavailable ErrCode = "REGISTRATION_CODE_UNAVAILABLE"
	ErrNotInvited      ErrCode = "NOT_INVITED"
	ErrGroupFull       ErrCode = "GROUP_FULL"
	ErrAlreadyInGroup  ErrCode = "ALREADY_IN_GROUP"
	ErrRandomGroups    ErrCode = "RANDOM_GROUPS"
	ErrNotInGroup      ErrCode = "NOT_IN_GROUP"
	ErrNoGroup         ErrCode = "NO_GROUP"

	// ─── Evaluation ────────────────────────────────────────────────────
	ErrEvaluationDenied  ErrCode = "EVALUATION_DENIED"
	ErrEvaluationMissing ErrCode = "EVALUATION_MISSING"
	ErrGradesHidden      ErrCode = "GRADES_HIDDEN"

	// ─── Record store ──────────────────────────────────────────────────
	ErrStoreUnauthorized ErrCode = "UNAUTHORIZED_STORE"
	ErrRemote            ErrCode = "REMOTE_ERROR"
	ErrPartialFailure    ErrCode = "PARTIAL_FAILURE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal    ErrCode = "INTERNAL_ERROR"
	ErrUnavailable ErrCode = "SERVICE_UNAVAILABLE"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "Se requiere un token de autenticación."
	case ErrTokenInvalid:
		return "El token de autenticación no es válido."
	case ErrTokenExpired:
		return "El token de autenticación ha expirado."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "No tienes permiso para acceder a este recurso."
	case ErrTeacherAccessOnly:
		return "Este recurso es exclusivo para profesores."
	case ErrStudentAccessOnly:
		return "Este recurso es exclusivo para estudiantes."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "La validación falló. Revisa los datos ingresados."
	case ErrInvalidID:
		return "El formato del identificador no es válido."
	case ErrInvalidPayload:
		return "El cuerpo de la solicitud no es válido."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Recurso no encontrado."
	case ErrConflict:
		return "El recurso ya existe."
	case ErrActionForbidden:
		return "Esta acción no está permitida."

	// ─── Courses & groups ──────────────────────────────────────────────
	case ErrCodeUnavailable:
		return "No fue posible generar un código de registro. Intenta de nuevo."
	case ErrNotInvited:
		return "No tienes una invitación pendiente para este curso."
	case ErrGroupFull:
		return "El grupo está lleno."
	case ErrAlreadyInGroup:
		return "Ya perteneces a un grupo de esta categoría."
	case ErrRandomGroups:
		return "Los grupos de esta categoría se asignan aleatoriamente."
	case ErrNotInGroup:
		return "No perteneces a este grupo."
	case ErrNoGroup:
		return "No perteneces a ningún grupo de esta categoría."

	// ─── Evaluation ────────────────────────────────────────────────────
	case ErrEvaluationDenied:
		return "No es posible enviar la evaluación."
	case ErrEvaluationMissing:
		return "No existe una evaluación previa para editar."
	case ErrGradesHidden:
		return "Las calificaciones aún no están disponibles."

	// ─── Record store ──────────────────────────────────────────────────
	case ErrStoreUnauthorized:
		return "La sesión con el servidor de datos expiró. Inicia sesión nuevamente."
	case ErrRemote:
		return "El servidor de datos no pudo completar la operación."
	case ErrPartialFailure:
		return "La operación se interrumpió. Los pasos completados se conservaron."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Demasiadas solicitudes. Intenta de nuevo más tarde."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrUnavailable:
		return "El servicio no está disponible en este momento."
	case ErrInternal:
		return "Ocurrió un error interno del servidor."
	default:
		return "Ocurrió un error inesperado."
	}
}
