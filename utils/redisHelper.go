package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/config"
)

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

// store instance, obj should be a pointer
func StoreRedis[T any](obj any, id int) error {
	typeName := GetTypeName[T]()
	key := typeName + ":" + fmt.Sprint(id)
	return config.SetRedisObject(key, &obj, GetCacheLifespan())
}

// retrieve cached instance by type name and id
func RetrieveRedis[T any](id int) (*T, error) {
	typeName := GetTypeName[T]()
	key := typeName + ":" + fmt.Sprint(id)

	var result T
	exists, err := config.GetRedisObject(key, &result)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return &result, nil
}

func RemoveRedis[T any](id int) error {
	typeName := GetTypeName[T]()
	key := typeName + ":" + fmt.Sprint(id)
	return config.RemoveRedisKey(key)
}
