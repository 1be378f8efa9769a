package session

// Store es el key-value durable donde la consola guarda la sesión
// entre ejecuciones. Solo dos claves: token y perfil serializado.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

const (
	keyToken = "token"
	keyUser  = "user"
)
