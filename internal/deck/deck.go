// Package deck holds the static Lotería card catalog and produces shuffled
// decks and player boards from it.
package deck

import (
	"math/rand"

	"github.com/infosegura/loteria-server/internal/models"
)

// Size is the number of cards in the catalog.
const Size = 54

// catalog is the traditional 54-card deck. IDs are stable; descriptions are
// the caller's verses, used by clients for the sung announcements.
var catalog = []models.Card{
	{ID: 1, Name: "El Gallo", ImageRef: "/cards/01-el-gallo.webp", Description: "El que le cantó a San Pedro no le volverá a cantar."},
	{ID: 2, Name: "El Diablito", ImageRef: "/cards/02-el-diablito.webp", Description: "Pórtate bien cuatito, si no te lleva el coloradito."},
	{ID: 3, Name: "La Dama", ImageRef: "/cards/03-la-dama.webp", Description: "Puliendo el paso, por toda la calle real."},
	{ID: 4, Name: "El Catrín", ImageRef: "/cards/04-el-catrin.webp", Description: "Don Ferruco en la alameda, su bastón quería tirar."},
	{ID: 5, Name: "El Paraguas", ImageRef: "/cards/05-el-paraguas.webp", Description: "Para el sol y para el agua."},
	{ID: 6, Name: "La Sirena", ImageRef: "/cards/06-la-sirena.webp", Description: "Con los cantos de sirena, no te vayas a marear."},
	{ID: 7, Name: "La Escalera", ImageRef: "/cards/07-la-escalera.webp", Description: "Súbeme paso a pasito, no quieras pegar brinquitos."},
	{ID: 8, Name: "La Botella", ImageRef: "/cards/08-la-botella.webp", Description: "La herramienta del borracho."},
	{ID: 9, Name: "El Barril", ImageRef: "/cards/09-el-barril.webp", Description: "Tanto bebió el albañil, que quedó como barril."},
	{ID: 10, Name: "El Árbol", ImageRef: "/cards/10-el-arbol.webp", Description: "El que a buen árbol se arrima, buena sombra le cobija."},
	{ID: 11, Name: "El Melón", ImageRef: "/cards/11-el-melon.webp", Description: "Me lo das o me lo quitas."},
	{ID: 12, Name: "El Valiente", ImageRef: "/cards/12-el-valiente.webp", Description: "Por qué le corres cobarde, trayendo tan buen puñal."},
	{ID: 13, Name: "El Gorrito", ImageRef: "/cards/13-el-gorrito.webp", Description: "Ponle su gorrito al nene, no se nos vaya a resfriar."},
	{ID: 14, Name: "La Muerte", ImageRef: "/cards/14-la-muerte.webp", Description: "La muerte tilica y flaca."},
	{ID: 15, Name: "La Pera", ImageRef: "/cards/15-la-pera.webp", Description: "El que espera, desespera."},
	{ID: 16, Name: "La Bandera", ImageRef: "/cards/16-la-bandera.webp", Description: "Verde, blanco y colorado, la bandera del soldado."},
	{ID: 17, Name: "El Bandolón", ImageRef: "/cards/17-el-bandolon.webp", Description: "Tocando su bandolón, está el mariachi Simón."},
	{ID: 18, Name: "El Violoncello", ImageRef: "/cards/18-el-violoncello.webp", Description: "Creciendo se fue hasta el cielo, y como no fue violín, tuvo que ser violoncello."},
	{ID: 19, Name: "La Garza", ImageRef: "/cards/19-la-garza.webp", Description: "Al otro lado del río tengo mi banco de arena."},
	{ID: 20, Name: "El Pájaro", ImageRef: "/cards/20-el-pajaro.webp", Description: "Tú me traes a puros brincos, como pájaro en la rama."},
	{ID: 21, Name: "La Mano", ImageRef: "/cards/21-la-mano.webp", Description: "La mano de un criminal."},
	{ID: 22, Name: "La Bota", ImageRef: "/cards/22-la-bota.webp", Description: "Una bota igual que la otra."},
	{ID: 23, Name: "La Luna", ImageRef: "/cards/23-la-luna.webp", Description: "El farol de los enamorados."},
	{ID: 24, Name: "El Cotorro", ImageRef: "/cards/24-el-cotorro.webp", Description: "Cotorro cotorro, saca la pata y empiézame a platicar."},
	{ID: 25, Name: "El Borracho", ImageRef: "/cards/25-el-borracho.webp", Description: "A qué borracho tan necio, ya no lo puedo aguantar."},
	{ID: 26, Name: "El Negrito", ImageRef: "/cards/26-el-negrito.webp", Description: "El que se comió el azúcar."},
	{ID: 27, Name: "El Corazón", ImageRef: "/cards/27-el-corazon.webp", Description: "No me extrañes corazón, que regreso en el camión."},
	{ID: 28, Name: "La Sandía", ImageRef: "/cards/28-la-sandia.webp", Description: "La barriga que Juan tenía, era empacho de sandía."},
	{ID: 29, Name: "El Tambor", ImageRef: "/cards/29-el-tambor.webp", Description: "No te arrugues, cuero viejo, que te quiero pa' tambor."},
	{ID: 30, Name: "El Camarón", ImageRef: "/cards/30-el-camaron.webp", Description: "Camarón que se duerme, se lo lleva la corriente."},
	{ID: 31, Name: "Las Jaras", ImageRef: "/cards/31-las-jaras.webp", Description: "Las jaras del indio Adán, donde pegan, dan."},
	{ID: 32, Name: "El Músico", ImageRef: "/cards/32-el-musico.webp", Description: "El músico trompas de hule, ya no me quiere tocar."},
	{ID: 33, Name: "La Araña", ImageRef: "/cards/33-la-arana.webp", Description: "Atarántamela a palos, no me la dejes llegar."},
	{ID: 34, Name: "El Soldado", ImageRef: "/cards/34-el-soldado.webp", Description: "Uno, dos y tres, el soldado p'al cuartel."},
	{ID: 35, Name: "La Estrella", ImageRef: "/cards/35-la-estrella.webp", Description: "La guía de los marineros."},
	{ID: 36, Name: "El Cazo", ImageRef: "/cards/36-el-cazo.webp", Description: "El caso que te hago es poco."},
	{ID: 37, Name: "El Mundo", ImageRef: "/cards/37-el-mundo.webp", Description: "Este mundo es una bola, y nosotros un bolón."},
	{ID: 38, Name: "El Apache", ImageRef: "/cards/38-el-apache.webp", Description: "¡Ah, Chihuahua! Cuánto apache con pantalón y huarache."},
	{ID: 39, Name: "El Nopal", ImageRef: "/cards/39-el-nopal.webp", Description: "Al nopal lo van a ver, sólo cuando tiene tunas."},
	{ID: 40, Name: "El Alacrán", ImageRef: "/cards/40-el-alacran.webp", Description: "El que con la cola pica, le dan una paliza."},
	{ID: 41, Name: "La Rosa", ImageRef: "/cards/41-la-rosa.webp", Description: "Rosita, Rosaura, ven que te quiero ahora."},
	{ID: 42, Name: "La Calavera", ImageRef: "/cards/42-la-calavera.webp", Description: "Al pasar por el panteón, me encontré un calaverón."},
	{ID: 43, Name: "La Campana", ImageRef: "/cards/43-la-campana.webp", Description: "Tú con la campana y yo con tu hermana."},
	{ID: 44, Name: "El Cantarito", ImageRef: "/cards/44-el-cantarito.webp", Description: "Tanto va el cántaro al agua, que se quiebra y te moja las enaguas."},
	{ID: 45, Name: "El Venado", ImageRef: "/cards/45-el-venado.webp", Description: "Saltando va buscando, pero no ve nada."},
	{ID: 46, Name: "El Sol", ImageRef: "/cards/46-el-sol.webp", Description: "La cobija de los pobres."},
	{ID: 47, Name: "La Corona", ImageRef: "/cards/47-la-corona.webp", Description: "El sombrero de los reyes."},
	{ID: 48, Name: "La Chalupa", ImageRef: "/cards/48-la-chalupa.webp", Description: "Rema que rema Lupita, sentada en su chalupita."},
	{ID: 49, Name: "El Pino", ImageRef: "/cards/49-el-pino.webp", Description: "Fresco y oloroso, en todo tiempo hermoso."},
	{ID: 50, Name: "El Pescado", ImageRef: "/cards/50-el-pescado.webp", Description: "El que por la boca muere, aunque mudo fuere."},
	{ID: 51, Name: "La Palma", ImageRef: "/cards/51-la-palma.webp", Description: "Palmero, sube a la palma y bájame un coco real."},
	{ID: 52, Name: "La Maceta", ImageRef: "/cards/52-la-maceta.webp", Description: "El que nace pa' maceta, no sale del corredor."},
	{ID: 53, Name: "El Arpa", ImageRef: "/cards/53-el-arpa.webp", Description: "Arpa vieja de mi suegra, ya no sirves pa' tocar."},
	{ID: 54, Name: "La Rana", ImageRef: "/cards/54-la-rana.webp", Description: "Al ver a la verde rana, qué brinco pegó tu hermana."},
}

var byID = func() map[int]models.Card {
	m := make(map[int]models.Card, len(catalog))
	for _, c := range catalog {
		m[c.ID] = c
	}
	return m
}()

// Catalog returns a copy of the full card catalog in id order
func Catalog() []models.Card {
	out := make([]models.Card, len(catalog))
	copy(out, catalog)
	return out
}

// CardByID looks up a card by its catalog id
func CardByID(id int) (models.Card, bool) {
	c, ok := byID[id]
	return c, ok
}

// Shuffled returns a uniformly random permutation of all 54 card ids
func Shuffled(rng *rand.Rand) []int {
	ids := make([]int, len(catalog))
	for i, c := range catalog {
		ids[i] = c.ID
	}
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}

// NewBoard samples 16 distinct cards from the catalog, in grid order
// left-to-right, top-to-bottom
func NewBoard(rng *rand.Rand) models.Board {
	ids := Shuffled(rng)
	board := make(models.Board, 0, models.BoardSize)
	for _, id := range ids[:models.BoardSize] {
		board = append(board, byID[id])
	}
	return board
}
