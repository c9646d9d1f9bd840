package dialect

import (
	"sort"
	"strings"
)

// Bindings, isimli parametreden (":" önekiyle) değere giden haritadır.
type Bindings map[string]Value

// Args, sürücüye gönderilecek argümanları döndürür: anahtarlar ":" öneki olmadan,
// değerler tip etiketine göre çözülmüş ve listeler düzleştirilmiş halde.
func (b Bindings) Args() map[string]any {
	args := make(map[string]any, len(b))
	for name, v := range b {
		args[strings.TrimPrefix(name, ":")] = v.Any()
	}
	return args
}

// Names, parametre adlarını alfabetik sırayla döndürür.
func (b Bindings) Names() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CompileBindings, derleyicinin ürettiği parametrelerle aynı sırayı yeniden üretir.
//
// Birleştirme sırası: UPDATE verisi (":col"), WHERE koşulları (":col1", ":col2", ...
// kolon başına ayrı sayaç) ve INSERT verisi (":col"). Liste değerleri ", " ile
// birleştirilmiş metne düzleştirilir. Yalnızca bağlaç olan koşullar atlanır.
// Her kategori yalnızca sorgu türü onu SQL'e yazıyorsa dahil edilir.
func (g *MySQLGrammar) CompileBindings(b QueryBuilder) Bindings {
	bindings := make(Bindings)
	kind := b.GetKind()

	if kind == KindUpdate {
		for _, f := range b.GetUpdateData() {
			bindings[g.Placeholder(f.Column, 0)] = f.Value.Flatten()
		}
	}

	if wheres := b.GetWheres(); len(wheres) > 0 && kind.IsValid() && kind != KindInsert {
		counters := make(map[string]int)
		for _, p := range wheres {
			if p.IsConnectiveOnly() {
				continue
			}
			counters[p.Column]++
			bindings[g.Placeholder(p.Column, counters[p.Column])] = p.Value.Flatten()
		}
	}

	if kind == KindInsert {
		for _, f := range b.GetInsertData() {
			bindings[g.Placeholder(f.Column, 0)] = f.Value.Flatten()
		}
	}

	return bindings
}
