package api

import "github.com/LJTian/NewsRelay/internal/news"

const (
	opListing  = "listing"
	opStory    = "story"
	opCategory = "category"
	opSearch   = "search"
)

// notice 面向用户的提示：标题 + 正文
type notice struct {
	Header string
	Text   string
}

var unavailable = notice{
	Header: "Servicio no disponible",
	Text:   "El servicio Cubanet no se encuentra disponible en estos momentos. Intente luego y si el problema persiste contacte al soporte. Disculpe las molestias.",
}

// transient 上游临时出错，重试通常能恢复
var transient = notice{
	Header: "Error temporal",
	Text:   "No pudimos obtener la información de Cubanet en este momento. Vuelva a intentarlo en unos minutos.",
}

var blankNotices = map[string]notice{
	opStory: {
		Header: "Búsqueda en blanco",
		Text:   "Su búsqueda parece estar en blanco, debe decirnos que artículo quiere leer",
	},
	opCategory: {
		Header: "Categoría en blanco",
		Text:   "Su búsqueda parece estar en blanco, debe decirnos sobre que categoría desea leer",
	},
	opSearch: {
		Header: "Búsqueda en blanco",
		Text:   "Su búsqueda parece estar en blanco o es muy corta, escriba al menos dos letras",
	},
}

var noResultNotices = map[string]notice{
	opCategory: {
		Header: "No hay resultados",
		Text:   "Es extraño, pero no hemos encontrado resultados para esta categoría. Estamos revisando a ver que ocurre.",
	},
	opSearch: {
		Header: "No hay resultados",
		Text:   "No hemos encontrado artículos que coincidan con su búsqueda. Intente con otras palabras.",
	},
}

func noticeFor(op string, kind news.Kind) notice {
	switch kind {
	case news.KindBlankQuery:
		if n, ok := blankNotices[op]; ok {
			return n
		}
	case news.KindArticleNotFound:
		return notice{
			Header: "Artículo no encontrado",
			Text:   "El artículo que buscas no fue encontrado.",
		}
	case news.KindNoResults:
		if n, ok := noResultNotices[op]; ok {
			return n
		}
	case news.KindUpstream:
		return transient
	}
	return unavailable
}
