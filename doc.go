// Package procyon 是一个嵌入式协同过滤推荐引擎。
//
// 设计要点：
//   - 二元反馈：每个用户对物品只有喜欢/不喜欢两种信号
//   - 邻居加权线性预测：用相似用户的偏好预测未评分物品的亲和度
//   - Wilson 下界计分板：置信度修正的全局"最佳评价"排名
//   - 状态全部落在外部有序 KV 存储（Redis）；排名是评分集合的
//     纯函数缓存，只做全量重建，不做增量修补
package procyon
