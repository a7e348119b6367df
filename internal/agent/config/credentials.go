// Package config — локальные файлы CLI-клиента.
//
// Файлы лежат в ~/.recipes (или в $RECIPES_HOME):
//
//	credentials.json  токены и адрес сервера
//	recipes.json      офлайн-копия рецептов (пакет memory)
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DirName — каталог клиента в домашней директории.
	DirName = ".recipes"
	// HomeEnv переопределяет каталог клиента целиком.
	HomeEnv = "RECIPES_HOME"
)

// Credentials — токены пользователя. Server запоминается при login,
// чтобы не передавать --server каждый раз.
type Credentials struct {
	Server       string `json:"server,omitempty"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoggedIn — есть сохранённый access-токен.
func (c *Credentials) LoggedIn() bool {
	return c != nil && c.AccessToken != ""
}

// Dir возвращает $RECIPES_HOME, а без него ~/.recipes.
func Dir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DirName), nil
}

// DefaultPath — путь к credentials.json в Dir().
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "credentials.json"), nil
}

// Load читает учётные данные. Отсутствующий файл значит "ещё не логинились".
func Load(path string) (*Credentials, error) {
	c := &Credentials{}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Save записывает учётные данные (каталог 0700, файл 0600).
func Save(path string, c *Credentials) error {
	return WriteJSON(path, c)
}

// WriteJSON пишет v в path через временный файл и rename, так что
// прерванная запись не оставляет обрезанный JSON. Каталог 0700, файл 0600.
func WriteJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
