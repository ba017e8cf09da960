package padoca

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ivens03/microservices-padoca/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api", 2*time.Second, nil)
}

func TestListProductsIsPublic(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/produtos", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[{"id":1,"nome":"Pão Francês","preco":0.75,"ativo":true,
			"categoria":{"id":2,"nome":"Pães"},"quantidadeEstoque":120,"estoqueMinimo":30}]`)
	})

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Pão Francês", products[0].Name)
	assert.True(t, decimal.RequireFromString("0.75").Equal(products[0].Price))
	assert.Equal(t, uint(2), products[0].CategoryID())
}

func TestAuthenticatedCallSendsBearerToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/pedidos/42/avancar", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.AdvanceOrder(context.Background(), Token("abc"), 42))
}

func TestAuthenticatedCallWithoutSession(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.ListQueue(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = client.ListQueue(context.Background(), Token(""))
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.False(t, called)
}

func TestCreateOrderBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req model.OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Cliente App", req.Customer)
		assert.Equal(t, model.KindCounter, req.Kind)
		assert.Equal(t, []model.OrderLine{{ProductID: 1, Quantity: 2}}, req.Lines)

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":10,"cliente":"Cliente App","status":"recebido","tipo":"BALCAO","total":25.00,"descricaoItens":["2x Bolo"]}`)
	})

	order, err := client.CreateOrder(context.Background(), Token("t"), model.OrderRequest{
		Customer: "Cliente App",
		Kind:     model.KindCounter,
		Lines:    []model.OrderLine{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(10), order.ID)
	assert.Equal(t, model.StatusReceived, order.Status)
}

func TestErrorTaxonomy(t *testing.T) {
	t.Run("non-2xx becomes APIError", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Produto não encontrado", http.StatusNotFound)
		})

		_, err := client.GetProduct(context.Background(), Token("t"), 9)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Contains(t, apiErr.Body, "Produto não encontrado")
		assert.True(t, IsStatus(err, http.StatusNotFound))
	})

	t.Run("malformed body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"not":"a list"}`)
		})

		_, err := client.ListCategories(context.Background())
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()
		client := NewClient(srv.URL, time.Second, nil)

		_, err := client.ListProducts(context.Background())
		assert.ErrorIs(t, err, ErrTransport)
		assert.False(t, errors.Is(err, ErrDecode))
	})
}

func TestCreateProductMultipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/produtos", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		jsonPart, jsonHeader, err := r.FormFile("produto")
		require.NoError(t, err)
		assert.Equal(t, "application/json", jsonHeader.Header.Get("Content-Type"))
		var req model.ProductRequest
		require.NoError(t, json.NewDecoder(jsonPart).Decode(&req))
		assert.Equal(t, "Sonho", req.Name)
		assert.Equal(t, 3, req.MinimumStock)

		img, imgHeader, err := r.FormFile("imagem")
		require.NoError(t, err)
		assert.Equal(t, "sonho.png", imgHeader.Filename)
		data, _ := io.ReadAll(img)
		assert.Equal(t, "PNGDATA", string(data))

		_, _ = io.WriteString(w, `{"id":5,"nome":"Sonho","preco":6.5,"quantidadeEstoque":10,"estoqueMinimo":3}`)
	})

	product, err := client.CreateProduct(context.Background(), Token("t"), model.ProductRequest{
		Name:         "Sonho",
		Price:        decimal.RequireFromString("6.50"),
		Stock:        10,
		MinimumStock: 3,
	}, &Upload{Filename: "sonho.png", ContentType: "image/png", Content: strings.NewReader("PNGDATA")})
	require.NoError(t, err)
	assert.Equal(t, uint(5), product.ID)
}

func TestUpdateProductWithoutImage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("imagem")
		assert.ErrorIs(t, err, http.ErrMissingFile)
		_, _ = io.WriteString(w, `{"id":5,"nome":"Sonho"}`)
	})

	_, err := client.UpdateProduct(context.Background(), Token("t"), 5, model.ProductRequest{Name: "Sonho"}, nil)
	require.NoError(t, err)
}

func TestLoginAndProfile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			assert.Empty(t, r.Header.Get("Authorization"))
			var creds model.Credentials
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			if creds.Password != "segredo" {
				http.Error(w, "Usuário ou senha inválidos", http.StatusUnauthorized)
				return
			}
			_, _ = io.WriteString(w, `{"token":"tok","usuario":{"id":1,"nome":"Ana","email":"ana@padoca.com","tipo":"GESTOR","ativo":true}}`)
		case "/api/usuarios/me":
			var update model.ProfileUpdate
			require.NoError(t, json.NewDecoder(r.Body).Decode(&update))
			assert.Equal(t, model.KeepPassword, update.Password)
			_, _ = io.WriteString(w, `{"id":1,"nome":"Ana Maria","tipo":"GESTOR"}`)
		default:
			http.NotFound(w, r)
		}
	})

	_, err := client.Login(context.Background(), model.Credentials{Email: "ana@padoca.com", Password: "errada"})
	assert.True(t, IsStatus(err, http.StatusUnauthorized))

	resp, err := client.Login(context.Background(), model.Credentials{Email: "ana@padoca.com", Password: "segredo"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, model.RoleManager, resp.User.Role)

	user, err := client.UpdateMe(context.Background(), Token(resp.Token), model.ProfileUpdate{Name: "Ana Maria"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", user.Name)
}
