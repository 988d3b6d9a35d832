package backendtest

import (
	"context"
	"net/http"
)

func withAccount(r *http.Request, acc *Account) context.Context {
	return context.WithValue(r.Context(), ctxKey{}, acc)
}

func accountFrom(r *http.Request) *Account {
	acc, _ := r.Context().Value(ctxKey{}).(*Account)
	return acc
}
