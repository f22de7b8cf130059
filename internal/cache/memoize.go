package cache

// Memoize 用缓存包装一个计算函数，出错的结果不会被缓存
func Memoize[K comparable, A any, V any](c *Cache[K, V], key func(A) K, fn func(A) (V, error)) func(A) (V, error) {
	return func(arg A) (V, error) {
		k := key(arg)
		if value, ok := c.Get(k); ok {
			return value, nil
		}

		value, err := fn(arg)
		if err != nil {
			return value, err
		}
		c.Put(k, value)
		return value, nil
	}
}
