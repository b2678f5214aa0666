// Package storage contém o armazenamento chave-valor onde o carrinho serializado é mantido
package storage

import "context"

// ChangeFunc recebe o aviso de que a chave mudou; origin identifica a sessão que escreveu.
// Origem vazia significa "origem desconhecida" (ex.: reconexão do listener).
type ChangeFunc func(key, origin string)

// KeyValue abstrai o storage local do navegador: um valor string por chave e um sinal
// de alteração entregue às outras sessões que observam a mesma chave
type KeyValue interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value, origin string) error
	Watch(key string, fn ChangeFunc) (cancel func())
}
