// Package api содержит HTTP-клиент для взаимодействия с сервером рецептов.
//
// Клиент инкапсулирует базовый URL сервера и настроенный http.Client,
// предоставляя методы для JSON-запросов (POST/GET/PUT/PATCH/DELETE)
// и multipart-загрузки изображения с авторизацией через Bearer токен.
//
// Особенности:
//   - baseURL нормализуется (обрезаются завершающие "/").
//   - По умолчанию добавляется заголовок Accept: application/json.
//   - Content-Type: application/json ставится только при наличии тела запроса.
//   - 204 No Content и пустое тело ответа считаются успехом.
//   - Ответы не 2xx превращаются в *APIError (статус, сообщение, ошибки полей).
package api

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/models"
)

// Client реализует HTTP-клиент для общения с сервером рецептов.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option настраивает Client.
type Option func(*Client)

// WithInsecureTLS отключает проверку TLS-сертификата сервера.
//
// ВНИМАНИЕ: только для локальной разработки с самоподписанным сертификатом.
func WithInsecureTLS() Option {
	return func(c *Client) {
		c.http.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // только для dev
		}
	}
}

// WithTimeout задаёт таймаут одного запроса (по умолчанию 10 секунд).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient создаёт новый HTTP-клиент для общения с сервером.
//
// baseURL — адрес сервера, например "http://127.0.0.1:8080".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError — ошибка, которую вернул сервер.
//
// Fields заполнен при ошибках валидации (400).
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%d: %s (%s)", e.Status, e.Message, strings.Join(parts, "; "))
}

// IsStatus сообщает, что err: *APIError с указанным статусом.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// readAPIError читает тело ошибочного ответа.
//
// Сервер отвечает ErrorResponse; если тело не JSON, сообщением становится
// сам текст тела, а при пустом теле: res.Status.
func readAPIError(res *http.Response) error {
	raw, _ := io.ReadAll(res.Body)
	apiErr := &APIError{Status: res.StatusCode}

	var body models.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Fields = body.Fields
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(raw))
	if apiErr.Message == "" {
		apiErr.Message = res.Status
	}
	return apiErr
}

// decodeJSONOrOK декодирует JSON из r в resp; пустое тело не ошибка.
func decodeJSONOrOK(r io.Reader, resp any) error {
	if resp == nil {
		return nil
	}
	err := json.NewDecoder(r).Decode(resp)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// do отправляет запрос и разбирает ответ.
//
// body может быть nil; contentType ставится только вместе с телом.
func (c *Client) do(method, path string, body io.Reader, contentType string, resp any, authToken string) error {
	r, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	r.Header.Set("Accept", "application/json")
	if body != nil && contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	if authToken != "" {
		r.Header.Set("Authorization", "Bearer "+authToken)
	}

	res, err := c.http.Do(r)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return readAPIError(res)
	}
	if res.StatusCode == http.StatusNoContent {
		return nil
	}
	return decodeJSONOrOK(res.Body, resp)
}

func (c *Client) doJSON(method, path string, req any, resp any, authToken string) error {
	if req == nil {
		return c.do(method, path, nil, "", resp, authToken)
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return err
	}
	return c.do(method, path, &buf, "application/json", resp, authToken)
}

// PostJSON выполняет POST-запрос, сериализуя req в JSON (nil: без тела).
func (c *Client) PostJSON(path string, req any, resp any, authToken string) error {
	return c.doJSON(http.MethodPost, path, req, resp, authToken)
}

// GetJSON выполняет GET-запрос и декодирует JSON-ответ в resp.
func (c *Client) GetJSON(path string, resp any, authToken string) error {
	return c.doJSON(http.MethodGet, path, nil, resp, authToken)
}

// PutJSON выполняет PUT-запрос, сериализуя req в JSON.
func (c *Client) PutJSON(path string, req any, resp any, authToken string) error {
	return c.doJSON(http.MethodPut, path, req, resp, authToken)
}

// PatchJSON выполняет PATCH-запрос, сериализуя req в JSON.
func (c *Client) PatchJSON(path string, req any, resp any, authToken string) error {
	return c.doJSON(http.MethodPatch, path, req, resp, authToken)
}

// DeleteJSON выполняет DELETE-запрос.
func (c *Client) DeleteJSON(path string, resp any, authToken string) error {
	return c.doJSON(http.MethodDelete, path, nil, resp, authToken)
}

// PostFile отправляет файл как multipart/form-data в поле field.
//
// Тело собирается в памяти: размер изображений ограничен сервером.
func (c *Client) PostFile(path, field, filename string, src io.Reader, resp any, authToken string) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, src); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	return c.do(http.MethodPost, path, &buf, mw.FormDataContentType(), resp, authToken)
}
