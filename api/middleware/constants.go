package middleware

// ContextKey 定义 Context 中使用的常量 key
// 避免在代码中硬编码字符串，防止拼写错误导致的 bug

const (
	// ContextKeyAssertion 存储身份断言 (*entity.IdentityAssertion) 的 Context key
	ContextKeyAssertion = "identityAssertion"
)
