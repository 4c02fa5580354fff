package redis

const (
	keyPrefix = "searchhub/"

	// KeyPrefixSession is the key prefix for browser sessions
	KeyPrefixSession = keyPrefix + "session/"
)
