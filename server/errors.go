package server

import (
	"errors"
	"net/http"

	"howmuch-apple/services"
)

// errStale marks a result whose requester went away before it arrived.
var errStale = errors.New("requester gone before the result arrived")

// failure is the user-facing form of an error.
type failure struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

func classify(err error) failure {
	switch {
	case errors.Is(err, services.ErrDirectoryUnavailable):
		return failure{http.StatusServiceUnavailable, "regions_unavailable",
			"지역 정보를 불러오지 못했습니다", "잠시 후 페이지를 새로고침해 주세요."}
	case errors.Is(err, services.ErrOptionsUnavailable):
		return failure{http.StatusServiceUnavailable, "options_unavailable",
			"기기 옵션을 불러오지 못했습니다", "잠시 후 페이지를 새로고침해 주세요."}
	case errors.Is(err, services.ErrCategoryRequired):
		return failure{http.StatusBadRequest, "invalid_query",
			"카테고리를 선택해 주세요", "검색할 제품 종류를 먼저 골라 주세요."}
	case errors.Is(err, services.ErrRegionIncomplete):
		return failure{http.StatusBadRequest, "invalid_query",
			"지역을 끝까지 선택해 주세요", "시/도, 시/군/구, 읍/면/동을 모두 선택해야 합니다."}
	case errors.Is(err, services.ErrUnknownCategory),
		errors.Is(err, services.ErrOptionNotAllowed),
		errors.Is(err, services.ErrRegionOrder),
		errors.Is(err, services.ErrUnknownRegion):
		return failure{http.StatusBadRequest, "invalid_query",
			"검색 조건을 확인해 주세요", err.Error()}
	case errors.Is(err, services.ErrNetworkUnavailable):
		return failure{http.StatusBadGateway, "network_unavailable",
			"시세 서버에 연결할 수 없습니다", "백엔드 서버가 실행 중인지 확인해 주세요."}
	case errors.Is(err, services.ErrStoreUnavailable):
		return failure{http.StatusServiceUnavailable, "store_unavailable",
			"시세 데이터베이스에 연결할 수 없습니다", "PostgreSQL이 실행 중인지 확인해 주세요."}
	case errors.Is(err, services.ErrEmptyResult):
		return failure{http.StatusOK, "empty",
			"검색 결과가 없습니다", "조건을 바꿔 다시 검색해 보세요."}
	default:
		return failure{http.StatusInternalServerError, "analysis_failed",
			"시세 정보를 가져오지 못했습니다", "알 수 없는 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."}
	}
}
